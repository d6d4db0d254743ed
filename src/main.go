package main

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/robfig/cron"

	"RideInsight/src/config"
	"RideInsight/src/datapush"
	"RideInsight/src/datasource/email"
	"RideInsight/src/datasource/file"
	"RideInsight/src/processor"
	"RideInsight/src/report"
	"RideInsight/src/storage"
)

func main() {
	jsonFolder := "./config"
	jsonFile := "config.json"
	dataJsonFile := "dataconfig.json"
	cfg, dcfg, err := config.LoadConfig(jsonFolder, jsonFile, dataJsonFile)
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// 初始化日志系统
	logger, err := storage.NewLogger(cfg.LogName)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Close()

	// 启动即做一次全量批处理
	if err := runBatch(cfg, dcfg, logger); err != nil {
		// 模式/解析错误属于致命错误: 不写任何输出直接退出
		logger.Fatal("批处理失败: " + err.Error())
		log.Fatal("批处理失败:", err)
	}

	if !cfg.Watch {
		logger.Info("单次批处理完成，退出")
		return
	}

	// 常驻模式: 监视数据目录，新导出文件落盘后重跑批处理
	monitor, err := file.NewFileMonitor(cfg.DataDir)
	if err != nil {
		logger.Error("创建目录监视器失败: " + err.Error())
		return
	}
	defer monitor.Close()

	go func() {
		err := monitor.Watch(func(path string) {
			logger.Info("检测到新的行程导出文件: " + path)
			if err := runBatch(cfg, dcfg, logger); err != nil {
				logger.Error("批处理失败: " + err.Error())
			}
		})
		if err != nil {
			logger.Error("目录监视出错: " + err.Error())
		}
	}()

	// 设置定时任务: 周期性检查邮箱里的新导出附件
	c := cron.New()
	interval := time.Duration(cfg.Email.CheckInterval).String() // 例如 "5m0s"
	cronSpec := fmt.Sprintf("@every %s", interval)

	if cfg.Email.Enabled {
		emailClient := email.NewEmailClient(
			cfg.Email.Server,
			cfg.Email.Username,
			cfg.Email.Password)
		handler := email.NewExportAttachmentHandler(cfg.Email.TargetSubject, cfg.DataDir)

		err = c.AddFunc(cronSpec, func() {
			logger.Info(fmt.Sprintf("开始定时检查邮箱(间隔: %v)...", cronSpec))

			newEmail, err := email.CheckAndProcessEmails(emailClient, cfg.Email.TargetSubject, logger)
			if err != nil {
				logger.Error("检查处理邮件失败: " + err.Error())
				return
			}

			// 附件落盘后由目录监视器触发批处理
			if err := handler.Handle(newEmail, logger); err != nil {
				logger.Error(fmt.Sprintf("处理邮件失败: %v", err))
			}
		})
		if err != nil {
			logger.Error("创建定时任务失败: " + err.Error())
			return
		}
	}

	c.Start()
	defer c.Stop()

	logger.Info(fmt.Sprintf("骑行数据批处理服务已启动(检查间隔: %v)，按Ctrl+C退出", interval))
	select {}
}

// runBatch 执行一次完整批处理: 读源 -> 五阶段管道 -> 快照 + 汇总报表
func runBatch(cfg *config.Config, dcfg *config.DataConfig, logger *storage.Logger) error {
	t1 := time.Now()

	paths, err := file.DiscoverSources(cfg.DataDir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("数据目录 %s 中没有行程导出文件", cfg.DataDir)
	}

	// 逐文件读入原始行集合
	sources := make([]processor.SourceInput, 0, len(paths))
	for _, path := range paths {
		name := filepath.Base(path)

		var df dataframe.DataFrame
		if strings.EqualFold(filepath.Ext(path), ".xlsx") {
			df, err = file.ReadXLSXToDataFrame(path, cfg.SheetName)
		} else {
			df, err = file.ReadCSVToDataFrame(path, dcfg.EncodingFor(name))
		}
		if err != nil {
			return fmt.Errorf("读取 %s 失败: %w", name, err)
		}

		sources = append(sources, processor.SourceInput{
			Name:    name,
			Variant: processor.SourceVariant(dcfg.VariantFor(name)),
			DF:      df,
		})
	}

	// 五阶段管道
	result, err := processor.NewPipeline(logger).Run(sources)
	if err != nil {
		return err
	}

	// 清洗快照(CSV为准，附带Excel镜像便于人工抽查)
	snapshotName := dcfg.SnapshotName
	if snapshotName == "" {
		snapshotName = "cleaned_trips.csv"
	}
	snapshotPath := filepath.Join(cfg.OutputDir, snapshotName)

	cleanedDF := processor.ToDataFrame(result.Cleaned)
	if err := storage.WriteSnapshotCSV(cleanedDF, snapshotPath); err != nil {
		return err
	}
	mirrorPath := strings.TrimSuffix(snapshotPath, filepath.Ext(snapshotPath)) + ".xlsx"
	if err := storage.WriteSnapshotXLSX(cleanedDF, mirrorPath); err != nil {
		logger.Warning("写Excel镜像失败: " + err.Error())
	}

	// 三张汇总表
	summaryName := dcfg.SummaryName
	if summaryName == "" {
		summaryName = "ride_summary.xlsx"
	}
	summaryPath := filepath.Join(cfg.OutputDir, summaryName)
	if err := report.WriteSummaryWorkbook(result, summaryPath); err != nil {
		return err
	}

	// 报表外发在致命路径之外，失败只记日志
	if cfg.SendEmail.Enabled {
		if err := email.SendSummaryWorkbook(cfg, summaryPath); err != nil {
			logger.Error("报表外发失败: " + err.Error())
		}
	}

	if cfg.DingTalk.Enabled {
		notifier := datapush.NewNotifier(cfg.DingTalk.Webhook, cfg.DingTalk.Secret)
		if err := notifier.PushBatchSummary(result, summaryPath, time.Since(t1)); err != nil {
			logger.Error("钉钉推送失败: " + err.Error())
		}
	}

	logger.Info(fmt.Sprintf("批处理完成: 清洗后%d行, 快照 %s, 报表 %s, 耗时%v",
		len(result.Cleaned), snapshotPath, summaryPath, time.Since(t1)))

	if err := logger.CheckRotate(cfg.LogMaxSize); err != nil {
		logger.Warning("日志轮转检查失败: " + err.Error())
	}
	return nil
}
