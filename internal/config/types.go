package config

import (
	"fxeval/internal/collector"
	"fxeval/internal/rates"
)

// Config is the root of the service configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Collector CollectorConfig `mapstructure:"collector"`
	Rates     RatesConfig     `mapstructure:"rates"`
	Report    ReportConfig    `mapstructure:"report"`
	Vocab     VocabConfig     `mapstructure:"vocab"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	LogLevel    string `mapstructure:"log_level"`
	LogFile     string `mapstructure:"log_file"`
	PayloadDump bool   `mapstructure:"payload_dump"`
	DumpFile    string `mapstructure:"dump_file"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path          string `mapstructure:"path"`
	ReportLogPath string `mapstructure:"report_log_path"`
}

type SchedulerConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	CollectCron      string `mapstructure:"collect_cron"`
	EvaluateCron     string `mapstructure:"evaluate_cron"`
	EvaluateLimit    int    `mapstructure:"evaluate_limit"`
	DailyReportCron  string `mapstructure:"daily_report_cron"`
	WeeklyReportCron string `mapstructure:"weekly_report_cron"`
	HoldingsCron     string `mapstructure:"holdings_cron"`
	IndicatorCron    string `mapstructure:"indicator_cron"`
}

type CollectorConfig struct {
	Enabled       bool                         `mapstructure:"enabled"`
	LookbackHours int                          `mapstructure:"lookback_hours"`
	Sources       []collector.HTTPSourceConfig `mapstructure:"sources"`
}

type RatesConfig struct {
	Enabled       bool                `mapstructure:"enabled"`
	Binance       rates.BinanceConfig `mapstructure:"binance"`
	Pairs         []string            `mapstructure:"pairs"`
	Interval      string              `mapstructure:"interval"`
	SpreadPerUnit string              `mapstructure:"spread_per_unit"`
}

type ReportConfig struct {
	ChartDir string        `mapstructure:"chart_dir"`
	Webhook  WebhookConfig `mapstructure:"webhook"`
}

type WebhookConfig struct {
	URL     string `mapstructure:"url"`
	Channel string `mapstructure:"channel"`
}

type VocabConfig struct {
	Path string `mapstructure:"path"`
}
