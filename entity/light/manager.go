package light

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/urban-sims/microtraffic/entity"
)

// LightManager 信号灯管理器
type LightManager struct {
	groups map[int]*Group
	order  []int // 升序灯组编号，更新顺序固定
}

// NewManager 创建信号灯管理器
func NewManager() *LightManager {
	return &LightManager{
		groups: make(map[int]*Group),
	}
}

// Init 初始化信号灯管理器
// 功能：依据路网灯位表创建灯组与灯实例，注入初始错峰并上格
// 算法说明：
// 1. 按灯组编号升序遍历路网灯位表
// 2. 组1/4/7初始GREEN计0，组2/5/8初始RED计5，组3/6/9初始RED计10，组10初始RED计0
// 3. 为每个灯位分配实体编号并放入网格
func (m *LightManager) Init(ctx entity.ITaskContext) {
	placements := ctx.RoadNetwork().LightPlacements()

	groupIDs := lo.Keys(placements)
	sort.Ints(groupIDs)
	for _, groupID := range groupIDs {
		state, elapsed := initialPhase(groupID)
		group := newGroup(groupID, state, elapsed)
		for _, pos := range placements[groupID] {
			l := &Light{
				id:    ctx.IDs().Next(),
				pos:   pos,
				group: group,
			}
			group.lights = append(group.lights, l)
			if err := ctx.Grid().Place(l, pos); err != nil {
				log.Panicf("place light of group %d at %v failed: %v", groupID, pos, err)
			}
		}
		m.groups[groupID] = group
		m.order = append(m.order, groupID)
	}
	log.Infof("light manager init: %d groups, %d lights", len(m.groups), len(m.Lights()))
}

// initialPhase 计算灯组初始相位
func initialPhase(groupID int) (entity.LightState, int) {
	switch groupID {
	case 1, 4, 7:
		return entity.LightGreen, 0
	case 2, 5, 8:
		return entity.LightRed, 5
	case 3, 6, 9:
		return entity.LightRed, 10
	default:
		return entity.LightRed, 0
	}
}

// Get 获取指定灯组，无效编号时panic
func (m *LightManager) Get(groupID int) entity.ILightGroup {
	group, ok := m.groups[groupID]
	if !ok {
		log.Panicf("no light group with id %d", groupID)
	}
	return group
}

// GetOrError 获取指定灯组，无效编号时返回error
func (m *LightManager) GetOrError(groupID int) (entity.ILightGroup, error) {
	group, ok := m.groups[groupID]
	if !ok {
		return nil, fmt.Errorf("no light group with id %d", groupID)
	}
	return group, nil
}

// Groups 获取全部灯组（编号升序）
func (m *LightManager) Groups() []entity.ILightGroup {
	return lo.Map(m.order, func(groupID int, _ int) entity.ILightGroup {
		return m.groups[groupID]
	})
}

// Lights 获取全部信号灯实例（灯组升序、组内按灯位表顺序）
func (m *LightManager) Lights() []entity.ITrafficLight {
	lights := make([]entity.ITrafficLight, 0, len(m.order)*2)
	for _, groupID := range m.order {
		lights = append(lights, m.groups[groupID].Lights()...)
	}
	return lights
}

// GreenLightCount 统计当前处于GREEN的灯实例数量
func (m *LightManager) GreenLightCount() int {
	count := 0
	for _, groupID := range m.order {
		g := m.groups[groupID]
		if g.State() == entity.LightGreen {
			count += len(g.lights)
		}
	}
	return count
}

// Update 推进全部灯组一个节拍
// 算法说明：
// 1. 按灯组编号升序依次推进
// 2. RED→GREEN切换前检查兼容集外是否存在GREEN灯组，
//    存在则本拍保持RED，后续节拍重试
func (m *LightManager) Update(ctx entity.ITaskContext) {
	cfg := ctx.RuntimeConfig().All.Light
	for _, groupID := range m.order {
		g := m.groups[groupID]
		allowed := true
		if g.State() == entity.LightRed {
			allowed = m.greenAllowed(groupID)
		}
		g.update(cfg.GreenTicks, cfg.YellowTicks, cfg.RedTicks, allowed)
	}
}

// greenAllowed 判断灯组此刻能否转GREEN
func (m *LightManager) greenAllowed(groupID int) bool {
	for _, otherID := range m.order {
		if otherID == groupID {
			continue
		}
		other := m.groups[otherID]
		if other.State() == entity.LightGreen && !compatible(groupID, otherID) {
			return false
		}
	}
	return true
}
