package maintenance

import (
	"testing"

	"github.com/WheelTrack/WheelTrack/internal/vehicle"
)

func TestResolveVehicle(t *testing.T) {
	vehicles := []vehicle.Vehicle{
		{ID: "v-1", Brand: "Renault", Model: "Clio"},
		{ID: "v-2", Brand: "Peugeot", Model: "208"},
	}

	// 展示名精确/子串匹配
	if id, ok := ResolveVehicle("Peugeot 208", vehicles); !ok || id != "v-2" {
		t.Fatalf("exact match failed: id=%s ok=%v", id, ok)
	}
	if id, ok := ResolveVehicle("peugeot", vehicles); !ok || id != "v-2" {
		t.Fatalf("partial name failed: id=%s ok=%v", id, ok)
	}
	// 反方向包含：存储名比展示名更长
	if id, ok := ResolveVehicle("Renault Clio 1.2 TCe", vehicles); !ok || id != "v-1" {
		t.Fatalf("reverse containment failed: id=%s ok=%v", id, ok)
	}

	// 匹配不到：退回第一辆
	if id, ok := ResolveVehicle("Tesla Model 3", vehicles); !ok || id != "v-1" {
		t.Fatalf("fallback failed: id=%s ok=%v", id, ok)
	}
	if id, ok := ResolveVehicle("", vehicles); !ok || id != "v-1" {
		t.Fatalf("empty name fallback failed: id=%s ok=%v", id, ok)
	}

	// 一辆车都没有：未解析哨兵，不编造 ID
	if id, ok := ResolveVehicle("Renault Clio", nil); ok || id != UnresolvedVehicleID {
		t.Fatalf("expected unresolved sentinel, got id=%q ok=%v", id, ok)
	}
}

func TestResolveVehicleIsPure(t *testing.T) {
	vehicles := []vehicle.Vehicle{{ID: "v-1", Brand: "Renault", Model: "Clio"}}
	a, _ := ResolveVehicle("clio", vehicles)
	b, _ := ResolveVehicle("clio", vehicles)
	if a != b {
		t.Fatalf("resolver not stable: %s != %s", a, b)
	}
}
