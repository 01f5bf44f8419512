// devtoken 用配置里的 JWT 密钥签发一个开发用 access token，
// 方便本地调试开启了鉴权的 gRPC 接口。
package main

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/WheelTrack/WheelTrack/internal/common/auth"
	"github.com/WheelTrack/WheelTrack/internal/common/config"
)

var (
	configPath = flag.String("config", "configs/wheeltrack-service.json", "配置文件路径")
	subject    = flag.String("subject", "dev", "token subject")
	roles      = flag.String("roles", "user", "逗号分隔的角色列表")
	ttl        = flag.Duration("ttl", 24*time.Hour, "token有效期")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	var roleList []string
	for _, r := range strings.Split(*roles, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roleList = append(roleList, r)
		}
	}

	token, expiresAt, err := auth.GenerateAccessToken(cfg.Auth, *subject, roleList, *ttl)
	if err != nil {
		panic(fmt.Sprintf("failed to generate token: %v", err))
	}
	fmt.Printf("token: %s\nexpires_at: %s\n", token, expiresAt.Format(time.RFC3339))
}
