// sentineld pdfSentinel HTTP 服务
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pdfSentinel/internal/app"
	"pdfSentinel/internal/config"
	"pdfSentinel/internal/logger"
)

// shutdownTimeout 等待进行中请求完成的上限
const shutdownTimeout = 30 * time.Second

// ==========================================
// 参数解析
// ==========================================

// parseArgs 解析命令行参数
func parseArgs() string {
	configPath := flag.String("c", "configs/config.yml", "配置文件路径")
	flag.Parse()
	return *configPath
}

// ==========================================
// 配置加载
// ==========================================

// loadConfig 加载配置文件
func loadConfig(configPath string) error {
	fmt.Printf("正在加载配置文件: %s\n", configPath)
	if err := config.LoadConfig(configPath); err != nil {
		return fmt.Errorf("加载配置文件失败: %v", err)
	}
	fmt.Printf("配置文件加载成功: %s\n", configPath)
	return nil
}

// ==========================================
// 初始化
// ==========================================

// initApp 按依赖顺序初始化各组件
// 存储必须在服务之前 (配置持久化与归档都依赖它)
func initApp(a *app.App) error {
	fmt.Println("正在初始化日志系统...")
	if err := a.InitLogger(false); err != nil {
		return err
	}

	fmt.Println("正在初始化存储 (密钥、数据库、归档)...")
	if err := a.InitStorage(); err != nil {
		return fmt.Errorf("存储初始化失败: %w", err)
	}
	logger.Info("存储初始化成功")

	fmt.Println("正在初始化业务服务...")
	if err := a.InitServices(); err != nil {
		return fmt.Errorf("业务服务初始化失败: %w", err)
	}

	// 完整性巡检失败不中断程序
	fmt.Println("正在启动完整性巡检...")
	if err := a.InitIntegrity(); err != nil {
		logger.Error("完整性巡检启动失败", "error", err)
	}
	return nil
}

// ==========================================
// 主入口
// ==========================================

func main() {
	// ==========================================
	// 阶段 1: 参数解析与配置加载
	// ==========================================
	configPath := parseArgs()

	if err := loadConfig(configPath); err != nil {
		panic(fmt.Sprintf("配置加载失败: %v", err))
	}
	cfg := config.Get()

	// ==========================================
	// 阶段 2: 组件初始化
	// ==========================================
	a := app.New(cfg)
	if err := initApp(a); err != nil {
		panic(fmt.Sprintf("初始化失败: %v", err))
	}

	// ==========================================
	// 阶段 3: 启动 HTTP 服务
	// ==========================================
	srv := &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      a.Server().Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", cfg.Server.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	fmt.Printf("=== sentineld 已启动 %s (按 Ctrl+C 停止) ===\n", cfg.Server.Listen)

	// ==========================================
	// 阶段 4: 优雅退出
	// ==========================================
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case sig := <-sigChan:
		fmt.Printf("\n[Main] 收到信号: %v，正在关闭服务...\n", sig)
	case err := <-serveErr:
		fmt.Printf("[Main] HTTP 服务异常退出: %v\n", err)
		logger.Error("HTTP server failed", "error", err)
		exitCode = 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown incomplete", "error", err)
	}

	fmt.Println("正在刷新存储...")
	if err := a.Shutdown(); err != nil {
		fmt.Printf("[Main] 存储刷新失败: %v\n", err)
		exitCode = 1
	}

	fmt.Println("[Main] 程序已安全退出")
	os.Exit(exitCode)
}
