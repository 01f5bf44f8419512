package main

import (
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/WheelTrack/WheelTrack/internal/common/config"
	"github.com/WheelTrack/WheelTrack/internal/common/db"
	"github.com/WheelTrack/WheelTrack/internal/common/logger"
	"github.com/WheelTrack/WheelTrack/internal/common/server"
	"github.com/WheelTrack/WheelTrack/internal/common/tracing"
	"github.com/WheelTrack/WheelTrack/internal/expense"
	"github.com/WheelTrack/WheelTrack/internal/gateway"
	"github.com/WheelTrack/WheelTrack/internal/maintenance"
	"github.com/WheelTrack/WheelTrack/internal/reminder"
	"github.com/WheelTrack/WheelTrack/internal/rental"
	"github.com/WheelTrack/WheelTrack/internal/store"
	"github.com/WheelTrack/WheelTrack/internal/syncer"
	"github.com/WheelTrack/WheelTrack/internal/vehicle"
	"google.golang.org/grpc"
)

var (
	configPath = flag.String("config", "configs/wheeltrack-service.json", "配置文件路径")
)

func main() {
	flag.Parse()

	// 加载配置
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 初始化日志
	log, err := logger.NewLogger(cfg.Log.Driver, cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	// 初始化链路追踪
	tracer, closer, err := tracing.InitTracer(
		cfg.Server.Name,
		cfg.Jaeger.Endpoint,
		cfg.Jaeger.Sampler,
	)
	if err != nil {
		log.Warnf("failed to init tracer: %v", err)
	} else {
		defer closer.Close()
	}
	_ = tracer

	// 初始化数据库
	gormDB, err := db.NewMySQL(
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Database,
		cfg.Database.MaxIdle,
		cfg.Database.MaxOpen,
	)
	if err != nil {
		log.Fatalf("failed to init mysql: %v", err)
	}
	if err := gormDB.AutoMigrate(&store.Document{}, &reminder.Reminder{}); err != nil {
		log.Fatalf("failed to migrate mysql schema: %v", err)
	}

	// 组装核心：每个集合一个唯一写入方
	backend := store.NewGormBackend(gormDB)
	vehicles := vehicle.NewRegistry(store.NewCollection[vehicle.Vehicle](store.NameVehicles, backend, log), log)
	expenses := expense.NewLedger(store.NewCollection[expense.Expense](store.NameExpenses, backend, log), log)
	maintenances := maintenance.NewLog(store.NewCollection[maintenance.Maintenance](store.NameMaintenances, backend, log), log)
	rentals := rental.NewManager(store.NewCollection[rental.Contract](store.NameContracts, backend, log), cfg.Rental.DefaultContractDays, log)
	coordinator := syncer.NewCoordinator(log)
	reminders := reminder.NewScheduler(gormDB)

	// 两段式接线：组件全部构造完再互相注入。
	// 启动期必须完成，否则维修↔支出之间会静默漂移。
	coordinator.Configure(expenses, vehicles, maintenances)
	maintenances.Configure(coordinator, reminders)
	vehicles.Configure(rentals)

	// HTTP JSON 接口
	httpSrv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:           gateway.NewServer(vehicles, expenses, maintenances, rentals, coordinator, log).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Infof("http listening on %s", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http serve failed: %v", err)
		}
	}()

	// 启动统一的 gRPC 服务模板（health / reflection / Consul 注册）
	if err := server.RunGRPCServer(cfg, log, func(s *grpc.Server) error {
		// TODO: 业务 proto 生成后在这里注册 WheelTrack 的 gRPC 服务
		return nil
	}); err != nil {
		log.Fatalf("wheeltrack-service exited with error: %v", err)
	}

	_ = httpSrv.Close()
}
