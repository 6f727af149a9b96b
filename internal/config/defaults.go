package config

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "fxeval"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}

	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}

	if c.Database.Path == "" {
		c.Database.Path = "data/fxeval.db"
	}
	if c.Database.ReportLogPath == "" {
		c.Database.ReportLogPath = "data/reports.db"
	}

	if c.Scheduler.CollectCron == "" {
		c.Scheduler.CollectCron = "*/10 * * * *"
	}
	if c.Scheduler.EvaluateCron == "" {
		c.Scheduler.EvaluateCron = "0 * * * *"
	}
	if c.Scheduler.EvaluateLimit <= 0 {
		c.Scheduler.EvaluateLimit = 50
	}
	if c.Scheduler.DailyReportCron == "" {
		c.Scheduler.DailyReportCron = "0 7 * * *"
	}
	if c.Scheduler.WeeklyReportCron == "" {
		c.Scheduler.WeeklyReportCron = "30 7 * * 1"
	}
	if c.Scheduler.HoldingsCron == "" {
		c.Scheduler.HoldingsCron = "*/15 * * * *"
	}
	if c.Scheduler.IndicatorCron == "" {
		c.Scheduler.IndicatorCron = "5 * * * *"
	}

	if c.Collector.LookbackHours <= 0 {
		c.Collector.LookbackHours = 24
	}

	if c.Rates.Interval == "" {
		c.Rates.Interval = "1h"
	}
	if c.Rates.SpreadPerUnit == "" {
		c.Rates.SpreadPerUnit = "0"
	}

	if c.Report.ChartDir == "" {
		c.Report.ChartDir = "data/charts"
	}
}
