package roadnet

import (
	"github.com/urban-sims/microtraffic/entity"
)

// 静态路网表。全部坐标为手工标定的固定数据，任何修改都会改变路网拓扑。

// segment 车道线段
// 功能：一条车道线段的格子序列及其规定行驶方向
type segment struct {
	name  string
	dir   entity.Direction
	cells []entity.Position
}

// col 生成一列格子，y从from到to（含两端，任意方向）
func col(x, from, to int) []entity.Position {
	return span(func(v int) entity.Position { return entity.Position{X: x, Y: v} }, from, to)
}

// row 生成一行格子，x从from到to（含两端，任意方向）
func row(y, from, to int) []entity.Position {
	return span(func(v int) entity.Position { return entity.Position{X: v, Y: y} }, from, to)
}

func span(make func(int) entity.Position, from, to int) []entity.Position {
	step := 1
	if to < from {
		step = -1
	}
	out := []entity.Position{}
	for v := from; ; v += step {
		out = append(out, make(v))
		if v == to {
			break
		}
	}
	return out
}

func cat(parts ...[]entity.Position) []entity.Position {
	out := []entity.Position{}
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// laneSegments 四个车道族的线段表
// 说明：注册顺序即族方向的标定顺序，多族共享格（路口）以先注册者为规定方向
var laneSegments = []segment{
	// 南行
	{"NS1", entity.DirSouth, col(1, 22, 2)},
	{"NS2", entity.DirSouth, cat(col(6, 7, 2), col(7, 7, 2))},
	{"NS3", entity.DirSouth, cat(col(12, 21, 12), col(13, 21, 12))},
	{"NS4", entity.DirSouth, cat(col(12, 7, 2), col(13, 7, 2))},
	{"NS5", entity.DirSouth, col(12, 10, 9)},
	// 北行
	{"SN1", entity.DirNorth, col(22, 1, 21)},
	{"SN2", entity.DirNorth, cat(col(18, 2, 7), col(19, 2, 7))},
	{"SN3", entity.DirNorth, cat(col(14, 2, 7), col(15, 2, 7))},
	{"SN4", entity.DirNorth, cat(col(14, 12, 21), col(15, 12, 21))},
	{"SN5", entity.DirNorth, cat(col(6, 12, 21), col(7, 12, 21))},
	{"SN6", entity.DirNorth, col(15, 9, 10)},
	// 东行
	{"WE1", entity.DirEast, row(1, 1, 22)},
	{"WE2", entity.DirEast, cat(row(5, 8, 11), row(4, 8, 11))},
	{"WE3", entity.DirEast, cat(row(9, 2, 11), row(8, 2, 11))},
	{"WE4", entity.DirEast, cat(row(9, 16, 21), row(8, 16, 21))},
	{"WE5", entity.DirEast, row(8, 12, 15)},
	// 西行
	{"EW1", entity.DirWest, row(22, 22, 1)},
	{"EW2", entity.DirWest, cat(row(17, 21, 16), row(16, 21, 16))},
	{"EW3", entity.DirWest, cat(row(11, 21, 16), row(10, 21, 16))},
	{"EW4", entity.DirWest, cat(row(11, 11, 2), row(10, 11, 2))},
	{"EW5", entity.DirWest, cat(row(5, 5, 2), row(4, 5, 2))},
}

// connectorCells 中央路口连接段
// 说明：这些格子不属于任何车道族，仅能经强制转向表进入
var connectorCells = row(11, 12, 15)

// junctionOverrides 路口强制转向表
// 说明：中央路口附近绕开通用车道逻辑的硬编码规则，是刻意的路由覆盖而非
// 通用转向算法；(15,11)给出两个候选格
var junctionOverrides = map[entity.Position][]entity.Position{
	{X: 15, Y: 10}: {{X: 15, Y: 11}},
	{X: 15, Y: 11}: {{X: 14, Y: 11}, {X: 15, Y: 12}},
	{X: 12, Y: 12}: {{X: 12, Y: 11}},
	{X: 13, Y: 12}: {{X: 13, Y: 11}},
	{X: 13, Y: 11}: {{X: 12, Y: 11}},
}

// spawnTable 出生点表：坐标、出生方向、编号
var spawnTable = []struct {
	pos entity.Position
	dir entity.Direction
	id  int
}{
	{entity.Position{X: 2, Y: 14}, entity.DirEast, 1},
	{entity.Position{X: 3, Y: 21}, entity.DirSouth, 2},
	{entity.Position{X: 3, Y: 6}, entity.DirSouth, 3},
	{entity.Position{X: 4, Y: 12}, entity.DirEast, 4},
	{entity.Position{X: 4, Y: 3}, entity.DirNorth, 5},
	{entity.Position{X: 5, Y: 17}, entity.DirEast, 6},
	{entity.Position{X: 8, Y: 15}, entity.DirWest, 7},
	{entity.Position{X: 9, Y: 2}, entity.DirNorth, 8},
	{entity.Position{X: 10, Y: 19}, entity.DirSouth, 9},
	{entity.Position{X: 10, Y: 12}, entity.DirEast, 10},
	{entity.Position{X: 10, Y: 7}, entity.DirWest, 11},
	{entity.Position{X: 17, Y: 21}, entity.DirSouth, 12},
	{entity.Position{X: 17, Y: 6}, entity.DirSouth, 13},
	{entity.Position{X: 17, Y: 4}, entity.DirWest, 14},
	{entity.Position{X: 20, Y: 18}, entity.DirEast, 15},
	{entity.Position{X: 20, Y: 15}, entity.DirWest, 16},
	{entity.Position{X: 20, Y: 4}, entity.DirNorth, 17},
}

// buildingRects 建筑矩形表，左上角与右下角（含两端）
var buildingRects = []struct {
	topLeft     entity.Position
	bottomRight entity.Position
}{
	{entity.Position{X: 2, Y: 21}, entity.Position{X: 5, Y: 12}},
	{entity.Position{X: 2, Y: 7}, entity.Position{X: 5, Y: 6}},
	{entity.Position{X: 2, Y: 3}, entity.Position{X: 5, Y: 2}},
	{entity.Position{X: 8, Y: 21}, entity.Position{X: 11, Y: 19}},
	{entity.Position{X: 8, Y: 16}, entity.Position{X: 11, Y: 12}},
	{entity.Position{X: 8, Y: 7}, entity.Position{X: 11, Y: 6}},
	{entity.Position{X: 8, Y: 3}, entity.Position{X: 11, Y: 2}},
	{entity.Position{X: 16, Y: 21}, entity.Position{X: 21, Y: 18}},
	{entity.Position{X: 16, Y: 15}, entity.Position{X: 21, Y: 12}},
	{entity.Position{X: 16, Y: 7}, entity.Position{X: 17, Y: 2}},
	{entity.Position{X: 20, Y: 7}, entity.Position{X: 21, Y: 2}},
	// 中央街区
	{entity.Position{X: 13, Y: 10}, entity.Position{X: 14, Y: 9}},
}

// lightTable 灯组编号到灯位坐标表
// 说明：个别灯位不在道路上，不参与通行判定，但其灯组完整参与状态机协调
var lightTable = map[int][]entity.Position{
	1:  {{X: 0, Y: 6}, {X: 1, Y: 6}},
	2:  {{X: 2, Y: 4}, {X: 2, Y: 5}},
	3:  {{X: 5, Y: 0}, {X: 5, Y: 1}},
	4:  {{X: 6, Y: 2}, {X: 7, Y: 2}},
	5:  {{X: 6, Y: 16}, {X: 7, Y: 16}},
	6:  {{X: 6, Y: 21}, {X: 7, Y: 21}},
	7:  {{X: 8, Y: 22}, {X: 8, Y: 23}},
	8:  {{X: 17, Y: 8}, {X: 17, Y: 9}},
	9:  {{X: 18, Y: 7}, {X: 19, Y: 7}},
	10: {{X: 8, Y: 17}, {X: 8, Y: 18}},
}
