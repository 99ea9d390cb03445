package light

import (
	"github.com/urban-sims/microtraffic/entity"
)

// Light 信号灯实例
// 功能：灯组在网格上的一个灯位，状态与所属灯组同步
// 说明：个别灯位不在道路上，不参与通行判定，但完整计入灯组与统计
type Light struct {
	id    entity.AgentID
	pos   entity.Position
	group *Group
}

func (l *Light) ID() entity.AgentID        { return l.id }
func (l *Light) Kind() entity.AgentKind    { return entity.KindTrafficLight }
func (l *Light) Position() entity.Position { return l.pos }

// GroupID 获取所属灯组编号
func (l *Light) GroupID() int { return l.group.GroupID() }

// State 获取当前灯态（与灯组同步）
func (l *Light) State() entity.LightState { return l.group.State() }

// Group 灯组状态机
// 功能：一组协调信号灯的有限状态机，RED→GREEN→YELLOW→RED循环
// 算法说明：
// 1. 每节拍计数器自增，状态切换时清零
// 2. GREEN→YELLOW与YELLOW→RED在固定时长到达后无条件切换
// 3. RED→GREEN为条件切换：仅当兼容集外无任何灯组处于GREEN时放行，
//    否则保持RED并在后续节拍重试（计数器继续增长）
type Group struct {
	groupID int
	lights  []*Light

	state   entity.LightState
	elapsed int
}

// newGroup 创建灯组
// 参数：groupID-灯组编号 state-初始状态 elapsed-初始已持续节拍数
// 说明：初始错峰由管理器注入：{1,4,7}起始GREEN，{2,5,8}起始RED已过5拍，
// {3,6,9}起始RED已过10拍，10号起始RED，以此制造滚动绿波
func newGroup(groupID int, state entity.LightState, elapsed int) *Group {
	return &Group{groupID: groupID, state: state, elapsed: elapsed}
}

// GroupID 获取灯组编号
func (g *Group) GroupID() int { return g.groupID }

// State 获取当前状态
func (g *Group) State() entity.LightState { return g.state }

// ElapsedTicks 获取当前状态持续节拍数
func (g *Group) ElapsedTicks() int { return g.elapsed }

// Lights 获取组内信号灯实例
func (g *Group) Lights() []entity.ITrafficLight {
	out := make([]entity.ITrafficLight, 0, len(g.lights))
	for _, l := range g.lights {
		out = append(out, l)
	}
	return out
}

// update 推进状态机一个节拍
// 参数：greenTicks/yellowTicks/redTicks-相位时长 greenAllowed-兼容集外是否无GREEN灯组
func (g *Group) update(greenTicks, yellowTicks, redTicks int, greenAllowed bool) {
	g.elapsed++
	switch g.state {
	case entity.LightGreen:
		if g.elapsed >= greenTicks {
			g.state = entity.LightYellow
			g.elapsed = 0
		}
	case entity.LightYellow:
		if g.elapsed >= yellowTicks {
			g.state = entity.LightRed
			g.elapsed = 0
		}
	case entity.LightRed:
		if g.elapsed >= redTicks && greenAllowed {
			g.state = entity.LightGreen
			g.elapsed = 0
		}
	}
}

// compatible 判断两个灯组能否同时GREEN
// 说明：{1,2,3}、{4,5,6}、{7,8,9}各自互容，10号与任何组互斥
func compatible(a, b int) bool {
	if a == b {
		return true
	}
	if a == 10 || b == 10 {
		return false
	}
	return (a-1)/3 == (b-1)/3
}
