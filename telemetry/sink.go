package telemetry

import (
	"fmt"
	"math"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Sink 指标落库器
// 功能：将每节拍指标行写入sqlite，支持多次运行共用一个库文件
type Sink struct {
	conn *sqlx.DB
}

// OpenSink 打开或创建指标库
func OpenSink(path string) (*Sink, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open metrics db: %w", err)
	}
	s := &Sink{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate metrics db: %w", err)
	}
	return s, nil
}

// Close 关闭底层连接
func (s *Sink) Close() error {
	return s.conn.Close()
}

func (s *Sink) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		spawn_rate REAL NOT NULL,
		min_count INTEGER NOT NULL,
		max_count INTEGER NOT NULL,
		breakdown_chance REAL NOT NULL,
		seed INTEGER NOT NULL,
		ticks INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS metrics (
		run_id TEXT NOT NULL REFERENCES runs(id),
		tick INTEGER NOT NULL,
		vehicles INTEGER NOT NULL,
		mechanics INTEGER NOT NULL,
		broken_vehicles INTEGER NOT NULL,
		angry_vehicles INTEGER NOT NULL,
		waiting_vehicles INTEGER NOT NULL,
		average_happiness REAL NOT NULL,
		anger_rate REAL NOT NULL,
		average_waiting REAL NOT NULL,
		intersection_congestion INTEGER NOT NULL,
		completed INTEGER NOT NULL,
		breakdowns INTEGER NOT NULL,
		PRIMARY KEY (run_id, tick)
	);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// RunParams 一次运行的参数集，随指标行一起落库
type RunParams struct {
	SpawnRate       float64 `db:"spawn_rate"`
	MinCount        int     `db:"min_count"`
	MaxCount        int     `db:"max_count"`
	BreakdownChance float64 `db:"breakdown_chance"`
	Seed            uint64  `db:"seed"`
	Ticks           int32   `db:"ticks"`
}

// RegisterRun 登记一次运行
func (s *Sink) RegisterRun(runID string, p RunParams) error {
	_, err := s.conn.Exec(
		`INSERT INTO runs (id, spawn_rate, min_count, max_count, breakdown_chance, seed, ticks)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, p.SpawnRate, p.MinCount, p.MaxCount, p.BreakdownChance, p.Seed, p.Ticks,
	)
	if err != nil {
		return fmt.Errorf("register run %s: %w", runID, err)
	}
	return nil
}

// WriteMetrics 写入一行指标
func (s *Sink) WriteMetrics(runID string, m Metrics) error {
	_, err := s.conn.Exec(
		`INSERT INTO metrics (run_id, tick, vehicles, mechanics, broken_vehicles, angry_vehicles,
			waiting_vehicles, average_happiness, anger_rate, average_waiting,
			intersection_congestion, completed, breakdowns)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, m.Tick, m.Vehicles, m.Mechanics, m.BrokenVehicles, m.AngryVehicles,
		m.WaitingVehicles, m.AverageHappiness, m.AngerRate, m.AverageWaiting,
		m.IntersectionCongestion, m.Completed, m.Breakdowns,
	)
	if err != nil {
		return fmt.Errorf("write metrics for run %s tick %d: %w", runID, m.Tick, err)
	}
	return nil
}

// Summary 单指标在一次运行中的统计概览
type Summary struct {
	Metric string
	Mean   float64
	Std    float64
	Min    float64
	Max    float64
}

// summarizedColumns 参与概览统计的指标列
var summarizedColumns = []string{
	"vehicles",
	"broken_vehicles",
	"angry_vehicles",
	"waiting_vehicles",
	"average_happiness",
	"anger_rate",
	"average_waiting",
	"intersection_congestion",
}

// SummarizeRun 汇总一次运行的各指标均值、标准差与极值
// 算法说明：方差经AVG(x*x)-AVG(x)*AVG(x)求得，浮点误差导致的负值取0
func (s *Sink) SummarizeRun(runID string) ([]Summary, error) {
	out := make([]Summary, 0, len(summarizedColumns))
	for _, col := range summarizedColumns {
		row := struct {
			Mean   float64 `db:"mean"`
			MeanSq float64 `db:"mean_sq"`
			Min    float64 `db:"min"`
			Max    float64 `db:"max"`
		}{}
		query := fmt.Sprintf(
			`SELECT AVG(%[1]s) AS mean, AVG(%[1]s*%[1]s) AS mean_sq, MIN(%[1]s) AS min, MAX(%[1]s) AS max
			 FROM metrics WHERE run_id = ?`, col)
		if err := s.conn.Get(&row, query, runID); err != nil {
			return nil, fmt.Errorf("summarize %s for run %s: %w", col, runID, err)
		}
		variance := row.MeanSq - row.Mean*row.Mean
		if variance < 0 {
			variance = 0
		}
		out = append(out, Summary{
			Metric: col,
			Mean:   row.Mean,
			Std:    math.Sqrt(variance),
			Min:    row.Min,
			Max:    row.Max,
		})
	}
	return out, nil
}
