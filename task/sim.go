package task

import (
	"flag"

	"github.com/urban-sims/microtraffic/telemetry"
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 100, "心跳日志间隔步数")
)

// Step 推进一个节拍
// 功能：按固定相位顺序推进整个模型并重建快照
// 返回：本拍的新快照
// 算法说明：
// 1. 时钟前进一拍
// 2. 准备阶段：应用上一拍挂起的车辆增删
// 3. 信号灯阶段：按灯组编号升序推进状态机
// 4. 车辆阶段：车辆与维修车合并乱序后逐个推进
// 5. 生成阶段：维持车辆数于配置区间
// 6. 采集快照，按配置间隔落库指标行
// 说明：相位顺序决定各智能体观察到的新旧状态，不可调整
func (ctx *Context) Step() *telemetry.Snapshot {
	ctx.clock.Advance()

	ctx.vehicleManager.PrepareNode()
	ctx.lightManager.Update(ctx)
	ctx.vehicleManager.Update(ctx)
	ctx.vehicleManager.Spawn(ctx)

	ctx.snapshot = telemetry.Collect(ctx)
	if ctx.sink != nil && ctx.clock.Tick%ctx.runtimeConfig.All.Output.Interval == 0 {
		m := telemetry.CollectMetrics(ctx, ctx.snapshot)
		if err := ctx.sink.WriteMetrics(ctx.runID, m); err != nil {
			log.Errorf("write metrics at tick %d: %v", ctx.clock.Tick, err)
		}
	}
	return ctx.snapshot
}

// Snapshot 获取当前快照
// 说明：返回本拍缓存，两次Step之间多次调用结果相同
func (ctx *Context) Snapshot() *telemetry.Snapshot {
	return ctx.snapshot
}

// Run 运行至时钟结束
// 功能：循环推进并定期输出心跳日志
func (ctx *Context) Run() {
	for !ctx.clock.Done() {
		s := ctx.Step()
		if ctx.clock.Tick%int32(*heartBeatInterval) == 0 {
			log.Infof("STEP %d: %d vehicles (%d broken, %d angry), %d mechanics, %d green lights, avg happiness %.1f",
				ctx.clock.Tick,
				s.Aggregates.TotalVehicles,
				s.Aggregates.BrokenVehicles,
				s.Aggregates.AngryVehicles,
				s.Aggregates.Mechanics,
				s.Aggregates.GreenLights,
				s.Aggregates.AverageHappiness)
		}
	}
	totals := ctx.vehicleManager.Totals()
	log.Infof("engine complete: %d spawned, %d completed, %d breakdowns, %d repairs",
		totals.Spawned, totals.Completed, totals.Breakdowns, totals.Repairs)
}
