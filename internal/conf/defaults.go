package conf

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaultConfig sets default values for every configuration key.
func setDefaultConfig(v *viper.Viper) {
	v.SetDefault("debug", false)

	v.SetDefault("input.roster", "mc_data.tsv")
	v.SetDefault("input.annotations", "mc_data_replicated.tsv")
	v.SetDefault("input.catalog", "label_categories.csv")
	v.SetDefault("input.images", "images")

	v.SetDefault("roster.idcolumn", 9)
	v.SetDefault("roster.idprefixlength", 9)
	v.SetDefault("roster.groupcolumn", 2)
	v.SetDefault("roster.header", true)

	v.SetDefault("catalog.header", false)

	v.SetDefault("analysis.minsupport", 5)
	v.SetDefault("analysis.topn", 25)

	v.SetDefault("vision.credentialsfile", "")
	v.SetDefault("vision.endpoint", "")
	v.SetDefault("vision.maxresults", 50)
	v.SetDefault("vision.timeout", 30*time.Second)
	v.SetDefault("vision.requestspersecond", 5.0)
	v.SetDefault("vision.cachettl", 24*time.Hour)

	v.SetDefault("output.dir", "results")
	v.SetDefault("output.charts.png", true)
	v.SetDefault("output.charts.html", true)
	v.SetDefault("output.console", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")

	v.SetDefault("metrics.textfile", "")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.dsn", "")
}
