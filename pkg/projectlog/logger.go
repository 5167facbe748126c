package projectlog

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/nhgoodboy/customer-service-agent/config"
)

func Init() {
	logrus.SetFormatter(&JSONFormatter{})
	level := logrus.Level(config.GetInstance().GetInt(config.AppLogLevel))
	logrus.SetLevel(level)
	rc := config.GetInstance().GetBool(config.AppLogReportcaller)
	logrus.SetReportCaller(rc)
	logrus.SetOutput(os.Stdout)
}
