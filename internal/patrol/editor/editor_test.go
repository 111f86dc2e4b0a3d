package editor

import (
	"testing"

	"github.com/fieldray/patrol/internal/patrol/entity"
)

func TestStagePointConversion(t *testing.T) {
	e := New(true)

	// 图片区域 left=100 top=50 width=400 height=200，点击中心
	p, err := e.StagePoint(300, 150, 100, 50, 400, 200)
	if err != nil {
		t.Fatalf("StagePoint failed: %v", err)
	}
	if p.X != 50 || p.Y != 50 {
		t.Errorf("expected (50, 50), got (%v, %v)", p.X, p.Y)
	}

	// 点击左上角
	p, _ = e.StagePoint(100, 50, 100, 50, 400, 200)
	if p.X != 0 || p.Y != 0 {
		t.Errorf("expected (0, 0), got (%v, %v)", p.X, p.Y)
	}

	// 越界点击收敛到边界
	p, _ = e.StagePoint(600, 40, 100, 50, 400, 200)
	if p.X != 100 || p.Y != 0 {
		t.Errorf("expected clamped (100, 0), got (%v, %v)", p.X, p.Y)
	}
}

func TestStagePointRequiresImage(t *testing.T) {
	e := New(false)
	if _, err := e.StagePoint(10, 10, 0, 0, 100, 100); err != ErrNoImage {
		t.Errorf("expected ErrNoImage, got %v", err)
	}
}

func TestStagePointInvalidBounds(t *testing.T) {
	e := New(true)
	if _, err := e.StagePoint(10, 10, 0, 0, 0, 100); err != ErrInvalidBounds {
		t.Errorf("expected ErrInvalidBounds, got %v", err)
	}
}

func TestAddItemWithImageRequiresStagedPoint(t *testing.T) {
	e := New(true)

	err := e.AddItem(CheckItem{Name: "电源指示灯", ItemType: entity.ItemTypePassFail})
	if err != ErrPointRequired {
		t.Fatalf("expected ErrPointRequired, got %v", err)
	}

	e.StagePoint(50, 50, 0, 0, 100, 100)
	if err := e.AddItem(CheckItem{Name: "电源指示灯", ItemType: entity.ItemTypePassFail}); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	items := e.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].X == nil || items[0].Y == nil || *items[0].X != 50 || *items[0].Y != 50 {
		t.Errorf("item did not bind staged point: %+v", items[0])
	}

	// 添加后暂存点被消费
	if _, ok := e.Staged(); ok {
		t.Error("staged point should be cleared after AddItem")
	}
	if err := e.AddItem(CheckItem{Name: "温度读数", ItemType: entity.ItemTypeNumber}); err != ErrPointRequired {
		t.Errorf("expected ErrPointRequired for second item, got %v", err)
	}
}

func TestAddItemWithoutImageAllowsUnpinned(t *testing.T) {
	e := New(false)
	if err := e.AddItem(CheckItem{Name: "环境巡查", ItemType: entity.ItemTypeText}); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	items := e.Items()
	if items[0].X != nil || items[0].Y != nil {
		t.Error("item without image should be unpinned")
	}
}

func TestAddItemValidation(t *testing.T) {
	e := New(false)
	if err := e.AddItem(CheckItem{Name: "", ItemType: entity.ItemTypeText}); err == nil {
		t.Error("expected error for empty name")
	}
	if err := e.AddItem(CheckItem{Name: "x", ItemType: "checkbox"}); err == nil {
		t.Error("expected error for unknown item type")
	}
}

func TestRemoveItemPreservesOrder(t *testing.T) {
	e := New(false)
	e.AddItem(CheckItem{Name: "a", ItemType: entity.ItemTypeText})
	e.AddItem(CheckItem{Name: "b", ItemType: entity.ItemTypeText})
	e.AddItem(CheckItem{Name: "c", ItemType: entity.ItemTypeText})

	if err := e.RemoveItem(1); err != nil {
		t.Fatalf("RemoveItem failed: %v", err)
	}

	items := e.Items()
	if len(items) != 2 || items[0].Name != "a" || items[1].Name != "c" {
		t.Errorf("unexpected items after remove: %+v", items)
	}

	if err := e.RemoveItem(5); err != ErrIndexOutOfRange {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestClearStaged(t *testing.T) {
	e := New(true)
	e.StagePoint(50, 50, 0, 0, 100, 100)
	e.ClearStaged()
	if _, ok := e.Staged(); ok {
		t.Error("staged point should be cleared")
	}
}

func TestMergeIntoEmptyListCopies(t *testing.T) {
	x, y := 10.0, 20.0
	incoming := []CheckItem{
		{Name: "阀门状态", ItemType: entity.ItemTypeSelect, Options: entity.StringList{"正常", "異常"}, X: &x, Y: &y},
	}

	// 列表为空时任何模式都直接拷贝
	for _, mode := range []MergeMode{MergeReplace, MergeAppend, MergeMode("")} {
		merged, err := Merge(nil, incoming, mode)
		if err != nil {
			t.Fatalf("Merge(%q) failed: %v", mode, err)
		}
		if len(merged) != 1 || merged[0].Name != "阀门状态" {
			t.Fatalf("Merge(%q) unexpected result: %+v", mode, merged)
		}
	}

	// 拷贝不共享坐标指针
	merged, _ := Merge(nil, incoming, MergeReplace)
	if merged[0].X == incoming[0].X {
		t.Error("merged item should not share pointer with source")
	}
}

func TestMergeReplaceAndAppend(t *testing.T) {
	existing := []CheckItem{{Name: "已有项", ItemType: entity.ItemTypeText}}
	incoming := []CheckItem{{Name: "模板项", ItemType: entity.ItemTypePassFail}}

	replaced, err := Merge(existing, incoming, MergeReplace)
	if err != nil {
		t.Fatalf("Merge replace failed: %v", err)
	}
	if len(replaced) != 1 || replaced[0].Name != "模板项" {
		t.Errorf("unexpected replace result: %+v", replaced)
	}

	appended, err := Merge(existing, incoming, MergeAppend)
	if err != nil {
		t.Fatalf("Merge append failed: %v", err)
	}
	if len(appended) != 2 || appended[0].Name != "已有项" || appended[1].Name != "模板项" {
		t.Errorf("unexpected append result: %+v", appended)
	}

	if _, err := Merge(existing, incoming, MergeMode("merge")); err != ErrInvalidMode {
		t.Errorf("expected ErrInvalidMode, got %v", err)
	}
}
