package service

import (
	"context"
	"testing"
	"time"

	"github.com/fieldray/patrol/internal/patrol/entity"
	"github.com/fieldray/patrol/internal/patrol/repository"
	"github.com/fieldray/patrol/internal/patrol/testutil"
)

func setupPlanService(t *testing.T) (*PlanService, *repository.Repositories) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewPlanService(repos.Plan, repos.Template, repos.Task)
	return svc, repos
}

func seedTemplateWithItems(t *testing.T, repos *repository.Repositories) (*entity.Asset, *entity.Template) {
	t.Helper()
	ctx := context.Background()

	asset := &entity.Asset{ID: "asset-0001", Name: "冷卻塔", Type: entity.AssetTypeDevice}
	if err := repos.Asset.Create(ctx, asset); err != nil {
		t.Fatalf("seed asset: %v", err)
	}

	template := &entity.Template{ID: "tmpl-0001", Name: "設備日檢", ImageURL: "http://storage/img.png"}
	if err := repos.Template.Create(ctx, template); err != nil {
		t.Fatalf("seed template: %v", err)
	}
	x, y := 25.0, 75.0
	items := []entity.TemplateItem{
		{ID: "ti-0001", TemplateID: template.ID, Name: "電源指示燈", ItemType: entity.ItemTypePassFail, X: &x, Y: &y, SortOrder: 0},
		{ID: "ti-0002", TemplateID: template.ID, Name: "溫度讀數", ItemType: entity.ItemTypeNumber, SortOrder: 1},
	}
	if err := repos.Template.ReplaceItems(ctx, template.ID, items); err != nil {
		t.Fatalf("seed template items: %v", err)
	}
	return asset, template
}

// 计划保存当天激活：开始日期为今天且启用时，立即生成一条 pending 任务，
// 检查项从模板拷贝且 result 为空
func TestCreatePlanActivatesToday(t *testing.T) {
	svc, repos := setupPlanService(t)
	ctx := context.Background()
	asset, template := seedTemplateWithItems(t, repos)

	today := time.Now().Format("2006-01-02")
	plan, err := svc.Create(ctx, &SavePlanRequest{
		AssetID:      asset.ID,
		TemplateID:   &template.ID,
		Frequency:    entity.FrequencyDaily,
		AssignedUser: "worker@test.com",
		StartDate:    today,
	})
	if err != nil {
		t.Fatalf("Create plan failed: %v", err)
	}

	// 计划项从模板拷贝
	if len(plan.Items) != 2 {
		t.Fatalf("expected 2 plan items copied from template, got %d", len(plan.Items))
	}
	if plan.Items[0].Name != "電源指示燈" || plan.Items[1].Name != "溫度讀數" {
		t.Errorf("unexpected plan items order: %+v", plan.Items)
	}
	if plan.Items[0].ID == "ti-0001" {
		t.Error("copied plan item must not reuse template item id")
	}

	// 当日任务已生成
	tasks, err := repos.Task.ListPending(ctx)
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 pending task, got %d", len(tasks))
	}

	task, err := repos.Task.FindByID(ctx, tasks[0].ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if task.Status != entity.TaskStatusPending {
		t.Errorf("expected pending status, got %s", task.Status)
	}
	if task.PlanID == nil || *task.PlanID != plan.ID {
		t.Error("task should reference the plan")
	}
	if len(task.Items) != 2 {
		t.Fatalf("expected 2 task items, got %d", len(task.Items))
	}
	for _, item := range task.Items {
		if item.Result != nil {
			t.Errorf("task item %s should start without result", item.Name)
		}
	}
	// 标注点坐标随检查项拷贝
	if task.Items[0].X == nil || *task.Items[0].X != 25.0 {
		t.Error("pin coordinates should be copied to task item")
	}
}

// 激活按 (计划, 日期) 幂等
func TestActivateForDateIdempotent(t *testing.T) {
	svc, repos := setupPlanService(t)
	ctx := context.Background()
	asset, template := seedTemplateWithItems(t, repos)

	today := time.Now().Format("2006-01-02")
	plan, err := svc.Create(ctx, &SavePlanRequest{
		AssetID:    asset.ID,
		TemplateID: &template.ID,
		StartDate:  today,
	})
	if err != nil {
		t.Fatalf("Create plan failed: %v", err)
	}

	task, err := svc.ActivateForDate(ctx, plan, time.Now())
	if err != nil {
		t.Fatalf("ActivateForDate failed: %v", err)
	}
	if task != nil {
		t.Error("second activation on same date should be a no-op")
	}

	tasks, _ := repos.Task.ListPending(ctx)
	if len(tasks) != 1 {
		t.Errorf("expected exactly 1 task, got %d", len(tasks))
	}
}

// 开始日期在未来时保存不生成任务
func TestCreatePlanFutureStartNoTask(t *testing.T) {
	svc, repos := setupPlanService(t)
	ctx := context.Background()
	asset, template := seedTemplateWithItems(t, repos)

	future := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	_, err := svc.Create(ctx, &SavePlanRequest{
		AssetID:    asset.ID,
		TemplateID: &template.ID,
		StartDate:  future,
	})
	if err != nil {
		t.Fatalf("Create plan failed: %v", err)
	}

	tasks, _ := repos.Task.ListPending(ctx)
	if len(tasks) != 0 {
		t.Errorf("expected no tasks for future plan, got %d", len(tasks))
	}
}

// 停用的计划保存时不激活，且停用状态要真正落库
func TestCreateInactivePlanNoTask(t *testing.T) {
	svc, repos := setupPlanService(t)
	ctx := context.Background()
	asset, template := seedTemplateWithItems(t, repos)

	inactive := false
	today := time.Now().Format("2006-01-02")
	plan, err := svc.Create(ctx, &SavePlanRequest{
		AssetID:    asset.ID,
		TemplateID: &template.ID,
		StartDate:  today,
		IsActive:   &inactive,
	})
	if err != nil {
		t.Fatalf("Create plan failed: %v", err)
	}
	if plan.IsActive {
		t.Error("created plan should report inactive")
	}

	// 回读持久化状态：false 不能被列默认值改写
	saved, err := repos.Plan.FindByID(ctx, plan.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if saved.IsActive {
		t.Error("persisted is_active should stay false")
	}

	tasks, _ := repos.Task.ListPending(ctx)
	if len(tasks) != 0 {
		t.Errorf("inactive plan should not create tasks, got %d", len(tasks))
	}

	// 停用的计划对排程器也不可见
	active, err := repos.Plan.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("inactive plan must not appear in active scan, got %d", len(active))
	}
}

// 结束日期早于开始日期被拒绝
func TestCreatePlanInvalidDateWindow(t *testing.T) {
	svc, repos := setupPlanService(t)
	ctx := context.Background()
	asset, _ := seedTemplateWithItems(t, repos)

	_, err := svc.Create(ctx, &SavePlanRequest{
		AssetID:   asset.ID,
		StartDate: "2026-03-10",
		EndDate:   "2026-03-01",
	})
	if err == nil {
		t.Fatal("expected error for end date before start date")
	}
}

// 整体替换计划检查项：保存后持久化集合等于提交集合
func TestPlanSaveItemsReplacesAll(t *testing.T) {
	svc, repos := setupPlanService(t)
	ctx := context.Background()
	asset, template := seedTemplateWithItems(t, repos)

	future := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	plan, err := svc.Create(ctx, &SavePlanRequest{
		AssetID:    asset.ID,
		TemplateID: &template.ID,
		StartDate:  future,
	})
	if err != nil {
		t.Fatalf("Create plan failed: %v", err)
	}

	err = svc.SaveItems(ctx, plan.ID, []CheckItemInput{
		{Name: "新檢查項", ItemType: entity.ItemTypeSelect, Options: entity.StringList{"正常", "異常"}},
	})
	if err != nil {
		t.Fatalf("SaveItems failed: %v", err)
	}

	items, err := repos.Plan.ListItems(ctx, plan.ID)
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(items) != 1 || items[0].Name != "新檢查項" {
		t.Errorf("persisted items should equal submitted set: %+v", items)
	}
}

// 删除计划级联自有检查项，已生成的任务保留
func TestDeletePlanKeepsTasks(t *testing.T) {
	svc, repos := setupPlanService(t)
	ctx := context.Background()
	asset, template := seedTemplateWithItems(t, repos)

	today := time.Now().Format("2006-01-02")
	plan, err := svc.Create(ctx, &SavePlanRequest{
		AssetID:    asset.ID,
		TemplateID: &template.ID,
		StartDate:  today,
	})
	if err != nil {
		t.Fatalf("Create plan failed: %v", err)
	}

	tasks, _ := repos.Task.ListPending(ctx)
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task before delete, got %d", len(tasks))
	}

	if err := svc.Delete(ctx, plan.ID); err != nil {
		t.Fatalf("Delete plan failed: %v", err)
	}

	if _, err := repos.Plan.FindByID(ctx, plan.ID); err != repository.ErrNotFound {
		t.Errorf("plan should be gone, got %v", err)
	}
	items, _ := repos.Plan.ListItems(ctx, plan.ID)
	if len(items) != 0 {
		t.Errorf("plan items should be cascaded, got %d", len(items))
	}

	tasks, _ = repos.Task.ListPending(ctx)
	if len(tasks) != 1 {
		t.Errorf("tasks must survive plan deletion, got %d", len(tasks))
	}
}

// 标注点坐标不成对或越界被拒绝
func TestPlanItemPinValidation(t *testing.T) {
	svc, repos := setupPlanService(t)
	ctx := context.Background()
	asset, _ := seedTemplateWithItems(t, repos)

	x := 50.0
	_, err := svc.Create(ctx, &SavePlanRequest{
		AssetID:   asset.ID,
		StartDate: "2030-01-01",
		Items: []CheckItemInput{
			{Name: "孤立坐标", ItemType: entity.ItemTypeText, X: &x},
		},
	})
	if err == nil {
		t.Fatal("expected error for x without y")
	}

	bad := 120.0
	y := 10.0
	_, err = svc.Create(ctx, &SavePlanRequest{
		AssetID:   asset.ID,
		StartDate: "2030-01-01",
		Items: []CheckItemInput{
			{Name: "越界坐标", ItemType: entity.ItemTypeText, X: &bad, Y: &y},
		},
	})
	if err == nil {
		t.Fatal("expected error for out-of-range pin")
	}
}
