package vehicle

import (
	"github.com/samber/lo"

	"github.com/urban-sims/microtraffic/entity"
	"github.com/urban-sims/microtraffic/utils/randengine"
)

// 车辆行为常量
const (
	happinessStart    = 100 // 初始幸福度
	happinessDecay    = 5   // 每等待节拍扣减
	happinessRecovery = 2   // 每移动节拍恢复
	angerThreshold    = 30  // 低于该值转为愤怒

	straightPreference = 0.7 // 最优集中含直行候选时选直行的概率
	repairTicks        = 5   // 维修所需节拍数
	waitingAlertTicks  = 40  // 连续等待告警阈值
)

// moveQuery 候选格查询参数
// 说明：车辆与维修车共用同一套候选生成逻辑，差异由字段表达：
// 维修车ignoreLights恒为true且passThrough指向维修目标
type moveQuery struct {
	pos          entity.Position
	dest         entity.Position
	firstMove    bool             // 尚未完成首次移动
	spawnDir     entity.Direction // 出生方向，仅首次移动时使用
	ignoreLights bool             // 无视信号灯（愤怒车辆与维修车）
	passThrough  entity.IAgent    // 视为非障碍的占用者，可为nil
}

// enterable 判断目标格当前是否可进入
// 算法说明：
// 1. 越界不可进入
// 2. 被其他移动智能体占用不可进入，passThrough除外
// 3. 目标格信号灯非GREEN时不可进入，除非无视信号灯
func enterable(ctx entity.ITaskContext, pos entity.Position, q moveQuery) bool {
	if !ctx.Grid().Contains(pos) {
		return false
	}
	if ctx.Grid().HasMobileAt(pos, q.passThrough) {
		return false
	}
	if q.ignoreLights {
		return true
	}
	if l, ok := ctx.Grid().LightAt(pos); ok && l.State() != entity.LightGreen {
		return false
	}
	return true
}

// candidates 生成候选下一格集合
// 功能：按优先级生成可进入的候选格，空集表示本拍等待
// 算法说明：
// 1. 当前格有强制转向规则时，候选集恰为规则给出的格（过滤可进入性后返回，不再下探）
// 2. 目的地曼哈顿距离为1时，目的地为唯一候选
// 3. 首次移动且出生方向格是道路时，该格为唯一候选
// 4. 当前格有车道族方向时优先直行，下一格须属同族
// 5. 直行不可用时横向回退：取属于任一车道族的邻格，
//    当前格有车道方向时排除其逆向邻格；连接段无族不会成为回退目标
func candidates(ctx entity.ITaskContext, q moveQuery) []entity.Position {
	net := ctx.RoadNetwork()

	if net.IsRoad(q.pos) {
		forced, err := net.JunctionOverride(q.pos)
		if err != nil {
			log.Panicf("junction override lookup at %v: %v", q.pos, err)
		}
		if forced != nil {
			return lo.Filter(forced, func(p entity.Position, _ int) bool {
				return enterable(ctx, p, q)
			})
		}
	}

	if q.pos.ManhattanTo(q.dest) == 1 {
		if enterable(ctx, q.dest, q) {
			return []entity.Position{q.dest}
		}
		return nil
	}

	if q.firstMove {
		first := q.pos.Add(q.spawnDir)
		if net.IsRoad(first) {
			if enterable(ctx, first, q) {
				return []entity.Position{first}
			}
			return nil
		}
		// 出生方向不是道路时继续按通常规则选格
	}

	if d, err := net.LaneDirectionAt(q.pos); err == nil {
		straight := q.pos.Add(d)
		if net.InFamily(straight, d) && enterable(ctx, straight, q) {
			return []entity.Position{straight}
		}
		return sideCandidates(ctx, q, &d)
	}
	return sideCandidates(ctx, q, nil)
}

// sideCandidates 横向回退候选
// 参数：laneDir-当前格车道族方向，出生点等无族格传nil且不排除任何邻格
func sideCandidates(ctx entity.ITaskContext, q moveQuery, laneDir *entity.Direction) []entity.Position {
	var out []entity.Position
	for _, dir := range entity.Directions {
		if laneDir != nil && dir == laneDir.Opposite() {
			continue
		}
		next := q.pos.Add(dir)
		if _, err := ctx.RoadNetwork().LaneDirectionAt(next); err != nil {
			continue
		}
		if enterable(ctx, next, q) {
			out = append(out, next)
		}
	}
	return out
}

// rank 从候选集中选出执行格
// 算法说明：
// 1. 取到目的地曼哈顿距离最小的候选子集
// 2. 子集中存在延续当前朝向的候选时，以0.7概率直接选它
// 3. 否则在最小子集中均匀抽取（重抽仍可能选中直行格）
func rank(ctx entity.ITaskContext, pos entity.Position, heading entity.Direction, dest entity.Position, cands []entity.Position) entity.Position {
	if len(cands) == 1 {
		return cands[0]
	}

	best := cands[0].ManhattanTo(dest)
	for _, c := range cands[1:] {
		if d := c.ManhattanTo(dest); d < best {
			best = d
		}
	}
	bestSet := lo.Filter(cands, func(c entity.Position, _ int) bool {
		return c.ManhattanTo(dest) == best
	})

	straight := pos.Add(heading)
	if lo.Contains(bestSet, straight) && ctx.Rand().PTrue(straightPreference) {
		return straight
	}
	return randengine.Choice(ctx.Rand(), bestSet)
}
