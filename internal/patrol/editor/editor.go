// Package editor 实现巡检检查项的标注编辑模型：
// 在参考图上点击暂存一个百分比坐标点，随后添加的检查项绑定该点。
// 状态只有两种：空闲、已暂存坐标点。
package editor

import (
	"errors"

	"github.com/fieldray/patrol/internal/patrol/entity"
)

// CheckItem 编辑中的检查项（未持久化，无ID归属）
type CheckItem struct {
	Name     string
	ItemType string
	Options  entity.StringList
	X        *float64
	Y        *float64
}

// Point 参考图上的百分比坐标点
type Point struct {
	X float64
	Y float64
}

// 合并模式
type MergeMode string

const (
	MergeReplace MergeMode = "replace" // 整体替换当前列表
	MergeAppend  MergeMode = "append"  // 追加到当前列表末尾
)

var (
	ErrNoImage         = errors.New("没有参考图，无法标注坐标点")
	ErrInvalidBounds   = errors.New("参考图尺寸不合法")
	ErrPointRequired   = errors.New("有参考图时必须先在图上标注坐标点")
	ErrIndexOutOfRange = errors.New("检查项序号超出范围")
	ErrInvalidMode     = errors.New("未知的合并模式")
)

// Editor 检查项标注编辑器
type Editor struct {
	hasImage bool
	staged   *Point
	items    []CheckItem
}

// New 创建空编辑器
func New(hasImage bool) *Editor {
	return &Editor{hasImage: hasImage}
}

// Load 从已持久化的检查项列表创建编辑器
func Load(hasImage bool, items []CheckItem) *Editor {
	e := &Editor{hasImage: hasImage}
	e.items = append(e.items, items...)
	return e
}

// StagePoint 将点击位置换算为百分比坐标并暂存。
// 坐标 = (点击位置 - 图片起点) / 图片尺寸 * 100，越界时收敛到 [0,100]。
func (e *Editor) StagePoint(clickX, clickY, left, top, width, height float64) (Point, error) {
	if !e.hasImage {
		return Point{}, ErrNoImage
	}
	if width <= 0 || height <= 0 {
		return Point{}, ErrInvalidBounds
	}

	p := Point{
		X: clamp((clickX-left)/width*100, 0, 100),
		Y: clamp((clickY-top)/height*100, 0, 100),
	}
	e.staged = &p
	return p, nil
}

// Staged 返回暂存的坐标点
func (e *Editor) Staged() (Point, bool) {
	if e.staged == nil {
		return Point{}, false
	}
	return *e.staged, true
}

// ClearStaged 丢弃暂存的坐标点
func (e *Editor) ClearStaged() {
	e.staged = nil
}

// AddItem 添加检查项。有参考图时要求先暂存坐标点，检查项绑定该点后
// 暂存状态清空；无参考图时允许添加不带坐标的检查项。
func (e *Editor) AddItem(item CheckItem) error {
	if item.Name == "" {
		return entity.ErrInvalidItem
	}
	if !entity.IsValidItemType(item.ItemType) {
		return entity.ErrInvalidItem
	}

	if e.hasImage {
		if e.staged == nil {
			return ErrPointRequired
		}
		x, y := e.staged.X, e.staged.Y
		item.X = &x
		item.Y = &y
		e.staged = nil
	} else {
		item.X = nil
		item.Y = nil
	}

	e.items = append(e.items, item)
	return nil
}

// RemoveItem 按序号删除检查项，其余项保持相对顺序
func (e *Editor) RemoveItem(index int) error {
	if index < 0 || index >= len(e.items) {
		return ErrIndexOutOfRange
	}
	e.items = append(e.items[:index], e.items[index+1:]...)
	return nil
}

// Items 返回当前工作列表的副本
func (e *Editor) Items() []CheckItem {
	out := make([]CheckItem, len(e.items))
	copy(out, e.items)
	return out
}

// ApplyTemplate 将模板检查项合并进编辑器。当前列表为空时直接拷贝，
// 否则按调用方指定的模式替换或追加。
func (e *Editor) ApplyTemplate(templateItems []CheckItem, mode MergeMode) error {
	merged, err := Merge(e.items, templateItems, mode)
	if err != nil {
		return err
	}
	e.items = merged
	return nil
}

// Merge 合并模板检查项与工作列表。列表为空时无条件拷贝；非空时
// replace 丢弃原列表，append 保留原列表并在末尾追加。拷贝不带任何归属。
func Merge(existing, incoming []CheckItem, mode MergeMode) ([]CheckItem, error) {
	copies := make([]CheckItem, len(incoming))
	for i, item := range incoming {
		copies[i] = copyItem(item)
	}

	if len(existing) == 0 {
		return copies, nil
	}

	switch mode {
	case MergeReplace:
		return copies, nil
	case MergeAppend:
		out := make([]CheckItem, 0, len(existing)+len(copies))
		out = append(out, existing...)
		out = append(out, copies...)
		return out, nil
	default:
		return nil, ErrInvalidMode
	}
}

func copyItem(item CheckItem) CheckItem {
	c := CheckItem{
		Name:     item.Name,
		ItemType: item.ItemType,
	}
	if len(item.Options) > 0 {
		c.Options = append(entity.StringList{}, item.Options...)
	}
	if item.X != nil && item.Y != nil {
		x, y := *item.X, *item.Y
		c.X = &x
		c.Y = &y
	}
	return c
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
