package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/ByLCY/devscene/compose"
	"github.com/ByLCY/devscene/config"
	"github.com/ByLCY/devscene/device"
	"github.com/ByLCY/devscene/diag"
	"github.com/ByLCY/devscene/scene"
)

type cliOptions struct {
	input      string
	output     string
	format     string
	configPath string
	strategy   string
	report     string
}

func main() {
	var o cliOptions
	flag.StringVar(&o.input, "in", "examples/device.json", "设备 JSON 文件路径")
	flag.StringVar(&o.output, "out", "output/scene.json", "场景输出路径")
	flag.StringVar(&o.format, "format", "json", "输出格式：json 或 cbor")
	flag.StringVar(&o.configPath, "config", "", "配置文件（.yaml/.yml/.toml）")
	flag.StringVar(&o.strategy, "strategy", "", "覆盖配置中的生成策略：texture 或 mesh")
	flag.StringVar(&o.report, "report", "", "组合报告 JSON 输出路径")
	verbose := flag.Bool("v", false, "输出调试日志")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	diag.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, o); err != nil {
		logger.Error("生成场景失败", "err", err)
		os.Exit(1)
	}
	fmt.Printf("已生成场景：%s\n", o.output)
}

// run 串联配置、解析、组合与导出。
func run(ctx context.Context, o cliOptions) error {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return err
		}
	}
	if o.strategy != "" {
		cfg.Strategy = config.Strategy(o.strategy)
	}

	file, err := os.Open(o.input)
	if err != nil {
		return fmt.Errorf("无法打开设备文件 %s: %w", o.input, err)
	}
	defer file.Close()

	dev, err := device.Parse(file)
	if err != nil {
		return err
	}

	tracker := scene.NewTracker()
	opts, err := cfg.Compose(tracker)
	if err != nil {
		return err
	}
	res, err := compose.Compose(ctx, dev, opts)
	if err != nil {
		return fmt.Errorf("组合场景失败: %w", err)
	}
	defer func() {
		res.Dispose()
		if n := tracker.Live(); n != 0 {
			diag.Logger().Warn("资源未完全释放", "live", n)
		}
	}()

	if o.report != "" {
		if err := writeReport(res, o.report); err != nil {
			return err
		}
	}
	return writeScene(res.Root, o.output, o.format)
}

func writeScene(root *scene.Node, path, format string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建输出文件失败: %w", err)
	}
	defer f.Close()

	switch format {
	case "json":
		err = scene.WriteJSON(f, root)
	case "cbor":
		err = scene.WriteCBOR(f, root)
	default:
		return fmt.Errorf("不支持的输出格式 %q", format)
	}
	if err != nil {
		return fmt.Errorf("写入场景失败: %w", err)
	}
	return f.Close()
}

// writeReport 输出各视图的状态与被跳过的失败，不含场景本身。
func writeReport(res *compose.Result, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建报告目录失败: %w", err)
	}
	report := compose.Result{Enclosure: res.Enclosure, Views: res.Views, Issues: res.Issues}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("输出组合报告失败: %w", err)
	}
	return nil
}
