package main

import (
	"encoding/base64"
	"flag"
	"os"

	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/urban-sims/microtraffic/api"
	"github.com/urban-sims/microtraffic/task"
	"github.com/urban-sims/microtraffic/utils/config"
)

var (
	// 配置文件路径，为空时使用内置默认配置
	configPath = flag.String("config", "", "config file path (empty means built-in defaults)")
	// 配置文件Base64编码后的数据
	configData = flag.String("config-data", "", "config file base64 encoded data")
	// 随机数种子，非负数时覆盖配置中的种子
	seed = flag.Int64("seed", -1, "random seed override (negative means use config)")
	// 总节拍数，非负数时覆盖配置中的总节拍数
	ticks = flag.Int64("ticks", -1, "total tick override (negative means use config)")
	// HTTP监听地址，设置后以服务模式运行，step由外部请求驱动
	listenAddr = flag.String("listen", "", "HTTP listening address (empty means batch run), e.g. :8521")

	// log
	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}
	logLevel = flag.String("log.level", "info", "日志级别（可选项：trace debug info warn error critical off）")

	log = logrus.WithField("module", "main")
)

func main() {
	flag.Parse()
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	// log: 运行时才修改
	if level, ok := logLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		log.Panicf("log.level must be one of %v", logLevels)
	}

	// 获取配置：默认值之上覆盖文件内容，再覆盖命令行项
	c := config.Default()
	var file []byte
	var err error
	if *configPath != "" {
		file, err = os.ReadFile(*configPath)
		if err != nil {
			log.Fatalf("config file load err: %v", err)
		}
	} else if *configData != "" {
		file, err = base64.StdEncoding.DecodeString(*configData)
		if err != nil {
			log.Fatalf("config data load err: %v", err)
		}
	}
	if len(file) > 0 {
		if err := yaml.UnmarshalStrict(file, &c); err != nil {
			log.Fatalf("config file load err: %v", err)
		}
	}
	if *seed >= 0 {
		c.Control.Seed = uint64(*seed)
	}
	if *ticks >= 0 {
		c.Control.Step.Total = int32(*ticks)
	}
	log.Infof("%+v", c)

	ctx, err := task.NewContext(c)
	if err != nil {
		log.Fatalf("init err: %v", err)
	}
	defer ctx.Close()

	if *listenAddr != "" {
		server := api.NewServer(ctx, c)
		if err := server.Serve(*listenAddr); err != nil {
			log.Fatalf("serve err: %v", err)
		}
		return
	}
	ctx.Run()
}
