package systems

import (
	"log"
	"sort"

	"github.com/DSoyomokun/CSC4821/pkg/components"
	"github.com/DSoyomokun/CSC4821/pkg/config"
	"github.com/DSoyomokun/CSC4821/pkg/ecs"
)

// SpawnFunc 根据生成事件创建实体，返回新实体（第一个为主实体，其余为附属实体，如平台上的钻石）
type SpawnFunc func(event config.SpawnEvent, speed float64) []ecs.EntityID

// RefillFunc 剩余事件不足时追加事件，last 为最后一个事件的距离
type RefillFunc func(last float64) []config.SpawnEvent

// SpawnerOptions 生成器可选参数
type SpawnerOptions struct {
	Name   string             // 日志标签
	Policy config.DrainPolicy // 事件消费策略，默认每帧一个
	Speed  float64            // 初始卷动速度

	OnDestroy func(ecs.EntityID) // 实体被回收或移除时调用

	Refill          RefillFunc // 可选：程序化补充事件
	RefillThreshold int        // 剩余事件少于此值时补充
}

// Spawner 按行进距离触发生成事件的通用生成器
//
// 事件按距离升序，每个事件最多触发一次；生成的实体由生成器持有，
// 每帧按卷动速度左移，越过回收阈值后销毁。
type Spawner struct {
	entityManager *ecs.EntityManager
	events        []config.SpawnEvent
	cursor        int
	factory       SpawnFunc
	opts          SpawnerOptions
	speed         float64

	owned []ecs.EntityID
}

// NewSpawner 创建生成器
// 事件在加载时已校验升序，这里再做一次稳定排序
func NewSpawner(em *ecs.EntityManager, events []config.SpawnEvent, factory SpawnFunc, opts SpawnerOptions) *Spawner {
	sorted := append([]config.SpawnEvent(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Distance < sorted[j].Distance })

	if opts.Policy == "" {
		opts.Policy = config.DrainOnePerTick
	}
	if opts.Name == "" {
		opts.Name = "Spawner"
	}

	return &Spawner{
		entityManager: em,
		events:        sorted,
		factory:       factory,
		opts:          opts,
		speed:         opts.Speed,
	}
}

// Update 触发到期事件、移动实体、回收越界实体
// 参数:
//   - deltaMs: 帧时间（毫秒）
//   - distance: 当前累计行进距离
func (s *Spawner) Update(deltaMs, distance float64) {
	s.fireDue(distance)
	s.refill()

	kept := s.owned[:0]
	for _, id := range s.owned {
		pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		if !ok {
			continue
		}
		scroll, ok := ecs.GetComponent[*components.ScrollComponent](s.entityManager, id)
		if !ok {
			continue
		}
		if advanceScroll(pos, scroll, deltaMs) {
			s.destroy(id)
			continue
		}
		kept = append(kept, id)
	}
	s.owned = kept
}

// spawnEpsilon 触发距离的比较容差
const spawnEpsilon = 1e-6

func (s *Spawner) fireDue(distance float64) {
	for s.cursor < len(s.events) && s.events[s.cursor].Distance <= distance+spawnEpsilon {
		event := s.events[s.cursor]
		s.cursor++

		ids := s.factory(event, s.speed)
		s.owned = append(s.owned, ids...)
		log.Printf("[%s] fired %s event at distance %.0f (%d entities)", s.opts.Name, event.Kind, event.Distance, len(ids))

		if s.opts.Policy == config.DrainOnePerTick {
			return
		}
	}
}

func (s *Spawner) refill() {
	if s.opts.Refill == nil || s.Pending() >= s.opts.RefillThreshold {
		return
	}
	last := 0.0
	if len(s.events) > 0 {
		last = s.events[len(s.events)-1].Distance
	}
	more := s.opts.Refill(last)
	for _, e := range more {
		if e.Distance < last {
			log.Printf("[%s] dropped refill event at %.0f behind %.0f", s.opts.Name, e.Distance, last)
			continue
		}
		s.events = append(s.events, e)
		last = e.Distance
	}
}

// SetScrollSpeed 更新卷动速度并下发给所有持有的实体
func (s *Spawner) SetScrollSpeed(speed float64) {
	s.speed = speed
	for _, id := range s.owned {
		if scroll, ok := ecs.GetComponent[*components.ScrollComponent](s.entityManager, id); ok {
			scroll.Speed = speed
		}
	}
}

// Owns 实体是否由此生成器持有
func (s *Spawner) Owns(id ecs.EntityID) bool {
	for _, owned := range s.owned {
		if owned == id {
			return true
		}
	}
	return false
}

// Remove 移除并销毁一个持有的实体（如被拾取的钻石），返回是否找到
func (s *Spawner) Remove(id ecs.EntityID) bool {
	for i, owned := range s.owned {
		if owned == id {
			s.owned = append(s.owned[:i], s.owned[i+1:]...)
			s.destroy(id)
			return true
		}
	}
	return false
}

func (s *Spawner) destroy(id ecs.EntityID) {
	s.entityManager.DestroyEntity(id)
	if s.opts.OnDestroy != nil {
		s.opts.OnDestroy(id)
	}
}

// Fired 已触发的事件数
func (s *Spawner) Fired() int {
	return s.cursor
}

// Pending 尚未触发的事件数
func (s *Spawner) Pending() int {
	return len(s.events) - s.cursor
}

// Entities 当前持有的实体
func (s *Spawner) Entities() []ecs.EntityID {
	return append([]ecs.EntityID(nil), s.owned...)
}

// Speed 当前卷动速度
func (s *Spawner) Speed() float64 {
	return s.speed
}

// Destroy 销毁所有持有的实体
func (s *Spawner) Destroy() {
	for _, id := range s.owned {
		s.destroy(id)
	}
	s.owned = nil
}
