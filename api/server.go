// 仿真引擎的JSON-over-HTTP封装。
// 一次step请求推进一拍并返回新快照；reset请求以覆盖后的配置重建模型。
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/urban-sims/microtraffic/task"
	"github.com/urban-sims/microtraffic/utils/config"
)

// Server 在HTTP上暴露仿真引擎
// 说明：互斥锁串行化step/reset与快照读取，引擎本身是单线程模型
type Server struct {
	mu  sync.Mutex
	ctx *task.Context
	// 当前生效的配置，reset的覆盖基于它
	cfg config.Config
}

// NewServer 创建服务实例
func NewServer(ctx *task.Context, cfg config.Config) *Server {
	return &Server{ctx: ctx, cfg: cfg}
}

// Handler 构建路由
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/step", s.handleStep)
	mux.HandleFunc("/api/v1/snapshot", s.handleSnapshot)
	mux.HandleFunc("/api/v1/reset", s.handleReset)
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	return mux
}

// Serve 阻塞式启动HTTP服务
func (s *Server) Serve(addr string) error {
	log.Infof("serving on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}

// handleStep 推进一拍并返回新快照
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.mu.Lock()
	snapshot := s.ctx.Step()
	s.mu.Unlock()
	writeJSON(w, snapshot)
}

// handleSnapshot 返回当前快照，不推进
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.mu.Lock()
	snapshot := s.ctx.Snapshot()
	s.mu.Unlock()
	writeJSON(w, snapshot)
}

// handleReset 以覆盖后的配置重建模型
// 说明：请求体为可选的配置覆盖，省略的字段沿用当前配置；
// 覆盖后的配置非法时返回400且模型保持不变
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cfg
	if r.Body != nil {
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&overrides{
			Control: &next.Control,
			Grid:    &next.Grid,
			Vehicle: &next.Vehicle,
			Light:   &next.Light,
			Output:  &next.Output,
		}); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "malformed config overrides: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	if err := s.ctx.Reset(next); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.cfg = next
	log.Infof("model reset: seed=%d grid=%dx%d vehicles=[%d,%d]",
		next.Control.Seed, next.Grid.Width, next.Grid.Height,
		next.Vehicle.MinCount, next.Vehicle.MaxCount)

	writeJSON(w, map[string]any{
		"status": "reset",
		"config": next,
	})
}

// overrides reset请求体，指针字段直接覆写当前配置的对应段
type overrides struct {
	Control *config.Control `json:"control,omitempty"`
	Grid    *config.Grid    `json:"grid,omitempty"`
	Vehicle *config.Vehicle `json:"vehicle,omitempty"`
	Light   *config.Light   `json:"light,omitempty"`
	Output  *config.Output  `json:"output,omitempty"`
}

// handleStatus 返回节拍与累计计数
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.mu.Lock()
	snapshot := s.ctx.Snapshot()
	totals := snapshot.Totals
	tick := s.ctx.Clock().Tick
	s.mu.Unlock()

	writeJSON(w, map[string]any{
		"tick":       tick,
		"statistics": snapshot.Aggregates,
		"totals":     totals,
	})
}
