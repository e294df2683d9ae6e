// Package input tracks mouse and touch pointers for the interactive viewer.
package input

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// PointerEvent 指针在一帧内产生的事件
type PointerEvent int

const (
	PointerNone      PointerEvent = iota
	PointerClick                  // 按下后未移动超过阈值即释放
	PointerDragStart              // 按下后移动超过阈值
	PointerDragMove               // 拖拽中
	PointerDragEnd                // 拖拽后释放
)

// DefaultDragThreshold 区分点击与拖拽的移动距离（像素）
const DefaultDragThreshold = 4

// PointerTracker 统一处理鼠标和触摸，把按下/移动/释放归纳为点击或拖拽
type PointerTracker struct {
	Threshold int

	pressed  bool
	dragging bool
	touchID  ebiten.TouchID
	startX   int
	startY   int
	x, y     int
}

// NewPointerTracker 创建指针跟踪器
func NewPointerTracker() *PointerTracker {
	return &PointerTracker{Threshold: DefaultDragThreshold, touchID: -1}
}

// Update 读取当前帧的输入状态，优先检测触摸
func (pt *PointerTracker) Update() PointerEvent {
	// 跟踪同一个触摸点，直到它抬起
	if pt.touchID >= 0 {
		for _, id := range ebiten.AppendTouchIDs(nil) {
			if id == pt.touchID {
				x, y := ebiten.TouchPosition(id)
				return pt.Step(true, x, y)
			}
		}
		pt.touchID = -1
		// 触摸释放时使用最后记录的位置
		return pt.Step(false, pt.x, pt.y)
	}

	if touchIDs := ebiten.AppendTouchIDs(nil); len(touchIDs) > 0 {
		pt.touchID = touchIDs[0]
		x, y := ebiten.TouchPosition(pt.touchID)
		return pt.Step(true, x, y)
	}

	x, y := ebiten.CursorPosition()
	return pt.Step(ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft), x, y)
}

// Step 用一帧的按下状态和位置推进状态机
func (pt *PointerTracker) Step(pressed bool, x, y int) PointerEvent {
	wasPressed := pt.pressed
	pt.pressed = pressed
	pt.x, pt.y = x, y

	switch {
	case pressed && !wasPressed:
		pt.startX, pt.startY = x, y
		pt.dragging = false
		return PointerNone

	case pressed && pt.dragging:
		return PointerDragMove

	case pressed:
		if dx, dy := x-pt.startX, y-pt.startY; dx*dx+dy*dy > pt.Threshold*pt.Threshold {
			pt.dragging = true
			return PointerDragStart
		}
		return PointerNone

	case wasPressed:
		dragged := pt.dragging
		pt.dragging = false
		if dragged {
			return PointerDragEnd
		}
		return PointerClick
	}

	return PointerNone
}

// Position 返回最后一次记录的指针位置
func (pt *PointerTracker) Position() (int, int) {
	return pt.x, pt.y
}

// Dragging 返回是否正在拖拽
func (pt *PointerTracker) Dragging() bool {
	return pt.dragging
}
