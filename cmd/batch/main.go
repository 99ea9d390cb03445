// 参数扫描批跑器。
// 对生成率与车辆数上下限的组合各执行若干次独立运行，
// 每拍指标行落入sqlite，结束后输出按运行聚合的统计概览。
package main

import (
	"flag"
	"strconv"
	"strings"

	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/urban-sims/microtraffic/task"
	"github.com/urban-sims/microtraffic/telemetry"
	"github.com/urban-sims/microtraffic/utils/config"
)

var (
	dbPath     = flag.String("db", "batch.db", "sqlite metrics db path")
	spawnRates = flag.String("spawn_rates", "0.2,0.3,0.4", "comma separated spawn rates to sweep")
	minCounts  = flag.String("min_counts", "5", "comma separated vehicle min counts to sweep")
	maxCounts  = flag.String("max_counts", "20,40", "comma separated vehicle max counts to sweep")
	runs       = flag.Int("runs", 3, "independent runs per parameter combination")
	ticks      = flag.Int("ticks", 100, "ticks per run")
	baseSeed   = flag.Uint64("seed", 1, "base seed, run i uses seed base+i")
	logLevel   = flag.String("log.level", "info", "日志级别")

	log = logrus.WithField("module", "batch")
)

func parseFloats(s string) []float64 {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			log.Fatalf("bad float list %q: %v", s, err)
		}
		out = append(out, v)
	}
	return out
}

func parseInts(s string) []int {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			log.Fatalf("bad int list %q: %v", s, err)
		}
		out = append(out, v)
	}
	return out
}

func main() {
	flag.Parse()
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	if level, err := logrus.ParseLevel(*logLevel); err == nil {
		logrus.SetLevel(level)
	}

	rates := parseFloats(*spawnRates)
	mins := parseInts(*minCounts)
	maxs := parseInts(*maxCounts)

	total := len(rates) * len(mins) * len(maxs) * *runs
	log.Infof("sweep: %d rates x %d mins x %d maxs x %d runs = %s runs of %s ticks",
		len(rates), len(mins), len(maxs), *runs,
		humanize.Comma(int64(total)), humanize.Comma(int64(*ticks)))

	runIDs := make([]string, 0, total)
	done := 0
	for _, rate := range rates {
		for _, minCount := range mins {
			for _, maxCount := range maxs {
				if maxCount < minCount {
					log.Warnf("skip combination min=%d max=%d", minCount, maxCount)
					continue
				}
				for i := 0; i < *runs; i++ {
					c := config.Default()
					c.Control.Step.Total = int32(*ticks)
					c.Control.Seed = *baseSeed + uint64(done)
					c.Vehicle.SpawnRate = rate
					c.Vehicle.MinCount = minCount
					c.Vehicle.MaxCount = maxCount
					c.Output.DB = *dbPath

					ctx, err := task.NewContext(c)
					if err != nil {
						log.Fatalf("init run err: %v", err)
					}
					ctx.Run()
					totals := ctx.VehicleManager().Totals()
					ctx.Close()

					runIDs = append(runIDs, ctx.RunID())
					done++
					log.Infof("run %d/%d done (rate=%.2f count=[%d,%d] seed=%d): %s spawned, %s completed, %d breakdowns",
						done, total, rate, minCount, maxCount, c.Control.Seed,
						humanize.Comma(int64(totals.Spawned)),
						humanize.Comma(int64(totals.Completed)),
						totals.Breakdowns)
				}
			}
		}
	}

	sink, err := telemetry.OpenSink(*dbPath)
	if err != nil {
		log.Fatalf("open sink for summary: %v", err)
	}
	defer sink.Close()

	for _, runID := range runIDs {
		summaries, err := sink.SummarizeRun(runID)
		if err != nil {
			log.Fatalf("summarize run %s: %v", runID, err)
		}
		log.Infof("run %s:", runID)
		for _, s := range summaries {
			log.Infof("  %-24s mean=%-8.2f std=%-8.2f min=%-8.2f max=%.2f",
				s.Metric, s.Mean, s.Std, s.Min, s.Max)
		}
	}
	log.Infof("sweep complete: %s runs into %s", humanize.Comma(int64(done)), *dbPath)
}
