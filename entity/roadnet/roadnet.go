package roadnet

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/urban-sims/microtraffic/entity"
)

// SpawnPoint 出生点
// 功能：车辆的生成位置，同时作为其他车辆的合法目的地，也是维修车的派遣位置
type SpawnPoint struct {
	id      entity.AgentID
	spawnID int
	pos     entity.Position
	dir     entity.Direction
}

func (s *SpawnPoint) ID() entity.AgentID          { return s.id }
func (s *SpawnPoint) Kind() entity.AgentKind      { return entity.KindSpawnPoint }
func (s *SpawnPoint) Position() entity.Position   { return s.pos }
func (s *SpawnPoint) SpawnID() int                { return s.spawnID }
func (s *SpawnPoint) Direction() entity.Direction { return s.dir }

// Building 建筑
// 功能：静态占用者，阻挡所在格的全部车道通行
type Building struct {
	id  entity.AgentID
	pos entity.Position
}

func (b *Building) ID() entity.AgentID        { return b.id }
func (b *Building) Kind() entity.AgentKind    { return entity.KindBuilding }
func (b *Building) Position() entity.Position { return b.pos }

// RoadNetwork 静态路网
// 功能：车道线段、方向与路口覆盖规则的只读描述，初始化完成后不再变化
// 说明：四个车道族由固定线段表构建；垂直转向只允许发生在车道尽头或
// 多族共享格；中央路口附近的小块坐标经强制转向表完全绕开通用车道逻辑
type RoadNetwork struct {
	families   map[entity.Direction]map[entity.Position]struct{}
	laneDir    map[entity.Position]entity.Direction
	connectors map[entity.Position]struct{}
	overrides  map[entity.Position][]entity.Position

	spawnPoints []*SpawnPoint
	buildings   []entity.IAgent

	width  int
	height int
}

// New 构建静态路网
// 功能：根据固定线段表构建车道族、规定方向与连接格集合
// 返回：构建完成的路网实例（静态智能体尚未编号，需再调用Init）
// 算法说明：
// 1. 按表序注册各线段格子到其族，多族共享格以先注册者为规定方向
// 2. 连接段格子单独登记，不进入任何族
// 3. 计算覆盖全部静态坐标的最小包络尺寸
func New() *RoadNetwork {
	n := &RoadNetwork{
		families: map[entity.Direction]map[entity.Position]struct{}{
			entity.DirNorth: {},
			entity.DirSouth: {},
			entity.DirEast:  {},
			entity.DirWest:  {},
		},
		laneDir:    make(map[entity.Position]entity.Direction),
		connectors: make(map[entity.Position]struct{}),
		overrides:  junctionOverrides,
	}
	for _, seg := range laneSegments {
		for _, pos := range seg.cells {
			n.families[seg.dir][pos] = struct{}{}
			if _, ok := n.laneDir[pos]; !ok {
				n.laneDir[pos] = seg.dir
			}
		}
	}
	for _, pos := range connectorCells {
		n.connectors[pos] = struct{}{}
	}
	n.width, n.height = n.computeExtent()
	return n
}

// Init 初始化静态智能体编号
// 功能：为出生点与建筑分配全局ID并构建实例
// 参数：ids-全局ID分配器
// 说明：晚放置的静态智能体取代同格的早放置者：建筑、信号灯、出生点依次
// 放置，故落在信号灯或出生点格内的建筑格直接不建
func (n *RoadNetwork) Init(ids *entity.IDAllocator) {
	covered := make(map[entity.Position]struct{})
	for _, positions := range lightTable {
		for _, pos := range positions {
			covered[pos] = struct{}{}
		}
	}
	for _, row := range spawnTable {
		covered[row.pos] = struct{}{}
	}

	n.spawnPoints = make([]*SpawnPoint, 0, len(spawnTable))
	for _, row := range spawnTable {
		n.spawnPoints = append(n.spawnPoints, &SpawnPoint{
			id:      ids.Next(),
			spawnID: row.id,
			pos:     row.pos,
			dir:     row.dir,
		})
	}
	sort.Slice(n.spawnPoints, func(i, j int) bool {
		return n.spawnPoints[i].spawnID < n.spawnPoints[j].spawnID
	})

	n.buildings = make([]entity.IAgent, 0)
	for _, rect := range buildingRects {
		for x := rect.topLeft.X; x <= rect.bottomRight.X; x++ {
			for y := rect.bottomRight.Y; y <= rect.topLeft.Y; y++ {
				pos := entity.Position{X: x, Y: y}
				if _, ok := covered[pos]; ok {
					continue
				}
				n.buildings = append(n.buildings, &Building{id: ids.Next(), pos: pos})
			}
		}
	}
	log.Debugf("road network ready: %d spawn points, %d building cells, %d light groups",
		len(n.spawnPoints), len(n.buildings), len(lightTable))
}

// IsRoad 判断坐标是否为道路
// 参数：pos-坐标
// 返回：坐标属于任一车道族或连接段时为true
func (n *RoadNetwork) IsRoad(pos entity.Position) bool {
	if _, ok := n.laneDir[pos]; ok {
		return true
	}
	_, ok := n.connectors[pos]
	return ok
}

// LaneDirectionAt 获取车道族规定方向
// 参数：pos-坐标
// 返回：规定方向；坐标无车道方向（非道路或仅为连接格）时返回包装后的
// ErrInvalidPosition，调用方应先判IsRoad或处理该错误
func (n *RoadNetwork) LaneDirectionAt(pos entity.Position) (entity.Direction, error) {
	d, ok := n.laneDir[pos]
	if !ok {
		return entity.DirNorth, fmt.Errorf("no lane direction at %v: %w", pos, entity.ErrInvalidPosition)
	}
	return d, nil
}

// InFamily 判断坐标是否属于指定方向的车道族
// 参数：pos-坐标 d-方向
// 返回：属于该族时为true（连接段格子不属于任何族）
func (n *RoadNetwork) InFamily(pos entity.Position, d entity.Direction) bool {
	_, ok := n.families[d][pos]
	return ok
}

// JunctionOverride 获取路口强制转向格
// 参数：pos-坐标
// 返回：强制候选格列表，无强制规则时返回nil；非道路坐标返回包装后的
// ErrInvalidPosition
func (n *RoadNetwork) JunctionOverride(pos entity.Position) ([]entity.Position, error) {
	if !n.IsRoad(pos) {
		return nil, fmt.Errorf("junction override query at non-road %v: %w", pos, entity.ErrInvalidPosition)
	}
	return n.overrides[pos], nil
}

// SpawnPoints 获取全部出生点（按编号升序）
func (n *RoadNetwork) SpawnPoints() []entity.ISpawnPoint {
	return lo.Map(n.spawnPoints, func(s *SpawnPoint, _ int) entity.ISpawnPoint { return s })
}

// Buildings 获取全部建筑
func (n *RoadNetwork) Buildings() []entity.IAgent {
	return n.buildings
}

// LightPlacements 获取灯组编号到灯位坐标表
func (n *RoadNetwork) LightPlacements() map[int][]entity.Position {
	return lightTable
}

// Extent 获取路网最小包络尺寸
// 返回：覆盖全部静态坐标所需的最小宽度与高度
func (n *RoadNetwork) Extent() (width, height int) {
	return n.width, n.height
}

func (n *RoadNetwork) computeExtent() (width, height int) {
	update := func(pos entity.Position) {
		if pos.X+1 > width {
			width = pos.X + 1
		}
		if pos.Y+1 > height {
			height = pos.Y + 1
		}
	}
	for pos := range n.laneDir {
		update(pos)
	}
	for pos := range n.connectors {
		update(pos)
	}
	for _, row := range spawnTable {
		update(row.pos)
	}
	for _, rect := range buildingRects {
		update(rect.topLeft)
		update(rect.bottomRight)
	}
	for _, positions := range lightTable {
		for _, pos := range positions {
			update(pos)
		}
	}
	return width, height
}
