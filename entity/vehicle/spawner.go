package vehicle

import (
	"github.com/samber/lo"

	"github.com/urban-sims/microtraffic/entity"
)

// Spawn 生成阶段：维持在运行车辆数于[min_count,max_count]区间
// 功能：车辆数不足下限时强制补齐，否则按概率在空闲出生点生成
// 算法说明：
// 1. 空闲出生点指该格无车辆且无维修车
// 2. 低于下限：在剩余空闲出生点中均匀抽取并生成，
//    直到补齐下限或空闲点耗尽，本拍不再走概率生成
// 3. 低于上限：按出生点表顺序逐点做伯努利抽样，
//    命中且空闲则生成，达到上限立即停止
// 4. 维修车不计入车辆数
func (m *VehicleManager) Spawn(ctx entity.ITaskContext) {
	cfg := ctx.RuntimeConfig().All.Vehicle
	count := m.VehicleCount()

	if count < cfg.MinCount {
		free := lo.Filter(ctx.RoadNetwork().SpawnPoints(), func(sp entity.ISpawnPoint, _ int) bool {
			return !ctx.Grid().HasMobileAt(sp.Position(), nil)
		})
		for count < cfg.MinCount && len(free) > 0 {
			i := ctx.Rand().Intn(len(free))
			sp := free[i]
			free = append(free[:i], free[i+1:]...)
			m.NewVehicle(ctx, sp)
			count++
		}
		return
	}

	if count < cfg.MaxCount {
		for _, sp := range ctx.RoadNetwork().SpawnPoints() {
			if ctx.Grid().HasMobileAt(sp.Position(), nil) {
				continue
			}
			if !ctx.Rand().PTrue(cfg.SpawnRate) {
				continue
			}
			m.NewVehicle(ctx, sp)
			count++
			if count >= cfg.MaxCount {
				break
			}
		}
	}
}
