package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config 结构体定义了应用程序的配置结构
type Config struct {
	Email struct {
		Server        string   `json:"server"`         // IMAP服务器地址
		Username      string   `json:"username"`       // 邮箱用户名
		Password      string   `json:"password"`       // 邮箱密码/授权码
		TargetSubject string   `json:"target_subject"` // 行程导出邮件的主题关键字
		CheckInterval Duration `json:"check_interval"` // 检查新邮件的间隔时间
		Enabled       bool     `json:"enabled"`        // 是否启用邮箱抓取
	} `json:"email"`

	SendEmail struct {
		Server    string `json:"server"`    // SMTP服务器地址
		Username  string `json:"username"`  // 发件邮箱
		Password  string `json:"password"`  // 发件密码/授权码
		Recipient string `json:"recipient"` // 汇总报表收件人
		Enabled   bool   `json:"enabled"`   // 是否外发报表
	} `json:"send_email"`

	DingTalk struct {
		Webhook string `json:"webhook"` // 群机器人webhook地址
		Secret  string `json:"secret"`  // 加签密钥(关键词校验的机器人留空)
		Enabled bool   `json:"enabled"` // 是否推送批处理通知
	} `json:"dingtalk"`

	DataDir    string `json:"data_dir"`     // 行程导出文件目录
	OutputDir  string `json:"output_dir"`   // 快照与报表输出目录
	SheetName  string `json:"sheet_name"`   // xlsx源的工作表名(空取第一个)
	LogName    string `json:"log_name"`     // 日志文件路径
	LogMaxSize string `json:"log_max_size"` // 日志体积上限(支持乘式: "10 * 1024 * 1024")
	Watch      bool   `json:"watch"`        // 是否常驻监视数据目录
}

// DataConfig 数据源识别配置
// 文件名关键字到变体/编码的映射，用于覆盖表头自动嗅探
type DataConfig struct {
	Variants     map[string]string `json:"variants"`      // 关键字 -> legacy/canonical
	Encodings    map[string]string `json:"encodings"`     // 关键字 -> gbk等
	SnapshotName string            `json:"snapshot_name"` // 清洗快照文件名
	SummaryName  string            `json:"summary_name"`  // 汇总报表文件名
}

var (
	once               sync.Once
	instance           *Config
	dataConfigInstance *DataConfig
	mu                 sync.RWMutex
)

func LoadConfig(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	var err error
	once.Do(func() {
		instance, dataConfigInstance, err = loadConfigs(jsonFolder, jsonFile, dataJsonFile)
	})
	return instance, dataConfigInstance, err
}

func loadConfigs(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	configFile := filepath.Join(jsonFolder, jsonFile)
	dataConfigFile := filepath.Join(jsonFolder, dataJsonFile)

	configData, err := readFile(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	dataConfigData, err := readFile(dataConfigFile)
	if err != nil {
		return nil, nil, fmt.Errorf("读取数据配置文件失败: %w", err)
	}

	cfgChan := make(chan *Config, 1)
	dcfgChan := make(chan *DataConfig, 1)
	errChan := make(chan error, 2)

	go parseConfig(configData, cfgChan, errChan)
	go parseDataConfig(dataConfigData, dcfgChan, errChan)

	cfg, dcfg, err := waitForResults(cfgChan, dcfgChan, errChan)
	if err != nil {
		return nil, nil, err
	}

	// 环境变量覆盖(RIDE_前缀)，未设置的变量不改动JSON中的值
	if err := envconfig.Process("ride", cfg); err != nil {
		return nil, nil, fmt.Errorf("应用环境变量覆盖失败: %w", err)
	}

	return cfg, dcfg, nil
}

func readFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("无法读取文件 %s: %w", filePath, err)
	}
	return data, nil
}

func parseConfig(data []byte, resultChan chan<- *Config, errChan chan<- error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		errChan <- fmt.Errorf("解析Config失败: %w", err)
		return
	}
	resultChan <- &cfg
}

func parseDataConfig(data []byte, resultChan chan<- *DataConfig, errChan chan<- error) {
	var dcfg DataConfig
	if err := json.Unmarshal(data, &dcfg); err != nil {
		errChan <- fmt.Errorf("解析DataConfig失败: %w", err)
		return
	}
	resultChan <- &dcfg
}

func waitForResults(
	cfgChan <-chan *Config,
	dcfgChan <-chan *DataConfig,
	errChan <-chan error,
) (*Config, *DataConfig, error) {
	var (
		cfg    *Config
		dcfg   *DataConfig
		errors []error
	)

	for i := 0; i < 2; i++ {
		select {
		case c := <-cfgChan:
			cfg = c
		case d := <-dcfgChan:
			dcfg = d
		case err := <-errChan:
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return nil, nil, combineErrors(errors)
	}

	if cfg == nil || dcfg == nil {
		return nil, nil, fmt.Errorf("部分配置未加载成功")
	}

	return cfg, dcfg, nil
}

func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	msg := "配置加载遇到多个错误:"
	for _, err := range errs {
		msg = fmt.Sprintf("%s\n- %v", msg, err)
	}
	return fmt.Errorf("%s", msg)
}

// Duration 是time.Duration的自定义包装类型
// 用于支持JSON序列化和反序列化
type Duration time.Duration

// UnmarshalJSON 实现json.Unmarshaler接口
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalJSON 实现json.Marshaler接口
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Decode 实现envconfig.Decoder接口，支持环境变量覆盖
func (d *Duration) Decode(value string) error {
	dur, err := time.ParseDuration(value)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// VariantFor 按文件名关键字查找变体覆盖，未命中返回空串(交给表头嗅探)
func (dc *DataConfig) VariantFor(filename string) string {
	mu.RLock()
	defer mu.RUnlock()
	for keyword, variant := range dc.Variants {
		if strings.Contains(filename, keyword) {
			return variant
		}
	}
	return ""
}

// EncodingFor 按文件名关键字查找编码覆盖，未命中按UTF-8处理
func (dc *DataConfig) EncodingFor(filename string) string {
	mu.RLock()
	defer mu.RUnlock()
	for keyword, enc := range dc.Encodings {
		if strings.Contains(filename, keyword) {
			return enc
		}
	}
	return ""
}

// SetVariant 运行期登记新的变体覆盖(线程安全)
func (dc *DataConfig) SetVariant(keyword, variant string) {
	mu.Lock()
	defer mu.Unlock()
	if dc.Variants == nil {
		dc.Variants = make(map[string]string)
	}
	dc.Variants[keyword] = variant
}
