package systems

import (
	"log"
	"sort"

	"github.com/DSoyomokun/CSC4821/pkg/components"
	"github.com/DSoyomokun/CSC4821/pkg/config"
	"github.com/DSoyomokun/CSC4821/pkg/ecs"
	"github.com/solarlune/resolv"
)

// resolv 空间只覆盖正坐标，实体在屏幕外生成、在负坐标处回收，
// 因此形状坐标整体平移 spaceMargin
const (
	spaceMarginX  = 4096
	spaceMarginY  = 1024
	spaceCellSize = 64
)

// CollisionSystem 碰撞分组检测
//
// 每个参与碰撞的实体在 resolv 空间中有一个带分组标签的矩形形状。
// 形状不是权威位置：每帧 Sync 从 PositionComponent 拷贝坐标。
// 禁用的碰撞体（如预警中的激光）不会出现在检测结果中。
type CollisionSystem struct {
	em    *ecs.EntityManager
	space *resolv.Space

	tags   map[components.CollisionGroup]resolv.Tags
	shapes map[ecs.EntityID]*resolv.ConvexPolygon
	owners map[resolv.IShape]ecs.EntityID
}

// NewCollisionSystem 创建碰撞系统
func NewCollisionSystem(em *ecs.EntityManager) *CollisionSystem {
	return &CollisionSystem{
		em: em,
		space: resolv.NewSpace(
			config.GameWindowWidth+2*spaceMarginX,
			config.GameWindowHeight+2*spaceMarginY,
			spaceCellSize, spaceCellSize,
		),
		tags: map[components.CollisionGroup]resolv.Tags{
			components.GroupPlayer:      resolv.NewTag("player"),
			components.GroupObstacle:    resolv.NewTag("obstacle"),
			components.GroupCollectible: resolv.NewTag("collectible"),
		},
		shapes: make(map[ecs.EntityID]*resolv.ConvexPolygon),
		owners: make(map[resolv.IShape]ecs.EntityID),
	}
}

// Register 为实体创建碰撞形状，分组取自 CollisionComponent.Group
// 重复注册会先移除旧形状
func (s *CollisionSystem) Register(id ecs.EntityID) {
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.em, id)
	if !ok {
		log.Printf("[CollisionSystem] entity %d has no position, not registered", id)
		return
	}
	col, ok := ecs.GetComponent[*components.CollisionComponent](s.em, id)
	if !ok {
		log.Printf("[CollisionSystem] entity %d has no collision box, not registered", id)
		return
	}
	tag, ok := s.tags[col.Group]
	if !ok {
		log.Printf("[CollisionSystem] entity %d has unknown group %q", id, col.Group)
		return
	}

	s.Unregister(id)

	cx, cy := shapeCenter(pos, col)
	sh := resolv.NewRectangle(cx, cy, col.Width, col.Height)
	sh.Tags().Set(tag)
	s.space.Add(sh)
	s.shapes[id] = sh
	s.owners[sh] = id
}

// Unregister 移除实体的碰撞形状（实体不存在形状时忽略）
func (s *CollisionSystem) Unregister(id ecs.EntityID) {
	sh, ok := s.shapes[id]
	if !ok {
		return
	}
	s.space.Remove(sh)
	delete(s.owners, sh)
	delete(s.shapes, id)
}

// IsRegistered 实体是否有碰撞形状
func (s *CollisionSystem) IsRegistered(id ecs.EntityID) bool {
	_, ok := s.shapes[id]
	return ok
}

// Count 当前形状数量
func (s *CollisionSystem) Count() int {
	return len(s.shapes)
}

// Sync 把权威位置拷贝到形状；已销毁的实体顺便移除
func (s *CollisionSystem) Sync() {
	for id, sh := range s.shapes {
		pos, ok := ecs.GetComponent[*components.PositionComponent](s.em, id)
		if !ok || s.em.IsMarkedForDestroy(id) {
			s.Unregister(id)
			continue
		}
		col, ok := ecs.GetComponent[*components.CollisionComponent](s.em, id)
		if !ok {
			s.Unregister(id)
			continue
		}
		cx, cy := shapeCenter(pos, col)
		sh.SetPosition(cx, cy)
	}
}

// Overlaps 返回与实体重叠的指定分组成员（按ID升序）
// 只报告启用碰撞的成员
func (s *CollisionSystem) Overlaps(id ecs.EntityID, group components.CollisionGroup) []ecs.EntityID {
	sh, ok := s.shapes[id]
	if !ok {
		return nil
	}
	tag, ok := s.tags[group]
	if !ok {
		return nil
	}
	self, _ := ecs.GetComponent[*components.CollisionComponent](s.em, id)
	selfPos, _ := ecs.GetComponent[*components.PositionComponent](s.em, id)

	var hits []ecs.EntityID
	sh.IntersectionTest(resolv.IntersectionTestSettings{
		TestAgainst: sh.SelectTouchingCells(0).FilterShapes().ByTags(tag),
		OnIntersect: func(set resolv.IntersectionSet) bool {
			other, ok := s.owners[set.OtherShape]
			if !ok || other == id {
				return true
			}
			col, ok := ecs.GetComponent[*components.CollisionComponent](s.em, other)
			if !ok || !col.Enabled {
				return true
			}
			pos, ok := ecs.GetComponent[*components.PositionComponent](s.em, other)
			if !ok || s.em.IsMarkedForDestroy(other) {
				return true
			}
			// 形状检测之后再做一次 AABB 确认，贴边不算重叠
			if self != nil && selfPos != nil && !checkAABBOverlap(selfPos, self, pos, col) {
				return true
			}
			hits = append(hits, other)
			return true
		},
	})

	sort.Slice(hits, func(i, j int) bool { return hits[i] < hits[j] })
	return hits
}

// Clear 移除所有形状
func (s *CollisionSystem) Clear() {
	for id := range s.shapes {
		s.Unregister(id)
	}
}

// shapeCenter 实体碰撞盒中心在 resolv 空间中的坐标
func shapeCenter(pos *components.PositionComponent, col *components.CollisionComponent) (float64, float64) {
	return pos.X + col.OffsetX + spaceMarginX, pos.Y + col.OffsetY + spaceMarginY
}

// checkAABBOverlap 检查两个碰撞盒是否严格重叠
func checkAABBOverlap(
	pos1 *components.PositionComponent, col1 *components.CollisionComponent,
	pos2 *components.PositionComponent, col2 *components.CollisionComponent) bool {

	left1, top1, right1, bottom1 := col1.Bounds(pos1)
	left2, top2, right2, bottom2 := col2.Bounds(pos2)

	return right1 > left2 &&
		left1 < right2 &&
		bottom1 > top2 &&
		top1 < bottom2
}
