package service

import (
	"context"
	"testing"
	"time"

	"github.com/fieldray/patrol/internal/patrol/entity"
	"github.com/fieldray/patrol/internal/patrol/repository"
	"github.com/fieldray/patrol/internal/patrol/testutil"
)

func setupTaskService(t *testing.T) (*TaskService, *repository.Repositories) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewTaskService(repos.Task, repos.Template, repos.Record)
	return svc, repos
}

func seedTaskWithItems(t *testing.T, svc *TaskService, repos *repository.Repositories, items []CheckItemInput) *entity.Task {
	t.Helper()
	ctx := context.Background()

	asset := &entity.Asset{ID: "asset-0001", Name: "機房", Type: entity.AssetTypeField}
	if err := repos.Asset.Create(ctx, asset); err != nil {
		t.Fatalf("seed asset: %v", err)
	}

	task, err := svc.Create(ctx, &SaveTaskRequest{
		AssetID:      asset.ID,
		AssignedUser: "worker@test.com",
		AssignedDate: time.Now().Format("2006-01-02"),
		Items:        items,
	})
	if err != nil {
		t.Fatalf("Create task failed: %v", err)
	}
	return task
}

// 全部通过的提交：记录结果为 pass，任务翻转为 completed
func TestCompleteTaskAllPass(t *testing.T) {
	svc, repos := setupTaskService(t)
	ctx := context.Background()

	task := seedTaskWithItems(t, svc, repos, []CheckItemInput{
		{Name: "電源指示燈", ItemType: entity.ItemTypePassFail},
		{Name: "溫度讀數", ItemType: entity.ItemTypeNumber},
	})

	record, err := svc.Complete(ctx, task.ID, &CompleteTaskRequest{
		Items: []CompleteItemInput{
			{ItemID: task.Items[0].ID, Result: "pass"},
			{ItemID: task.Items[1].ID, Result: "42", Notes: "正常範圍"},
		},
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if record.Result != entity.ResultPass {
		t.Errorf("expected pass record, got %s", record.Result)
	}
	if record.SubmittedAt.IsZero() {
		t.Error("record should carry submitted_at")
	}

	got, _ := repos.Task.FindByID(ctx, task.ID)
	if got.Status != entity.TaskStatusCompleted {
		t.Errorf("expected completed status, got %s", got.Status)
	}
	if got.Items[1].Result == nil || *got.Items[1].Result != "42" {
		t.Errorf("item result not persisted: %+v", got.Items[1])
	}
	if got.Items[1].Notes != "正常範圍" {
		t.Errorf("item notes not persisted: %+v", got.Items[1])
	}
}

// 任一结果属于失败集合（含历史字面量 異常）则整体 fail
func TestCompleteTaskFailAggregation(t *testing.T) {
	svc, repos := setupTaskService(t)
	ctx := context.Background()

	task := seedTaskWithItems(t, svc, repos, []CheckItemInput{
		{Name: "外觀檢查", ItemType: entity.ItemTypeSelect, Options: entity.StringList{"正常", "異常"}},
		{Name: "運轉聲音", ItemType: entity.ItemTypeSelect, Options: entity.StringList{"正常", "異常"}},
	})

	record, err := svc.Complete(ctx, task.ID, &CompleteTaskRequest{
		Items: []CompleteItemInput{
			{ItemID: task.Items[0].ID, Result: "正常"},
			{ItemID: task.Items[1].ID, Result: "異常", Notes: "軸承雜音"},
		},
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if record.Result != entity.ResultFail {
		t.Errorf("expected fail record, got %s", record.Result)
	}
}

// 有检查项缺结果时整体拒绝，不产生任何写入
func TestCompleteTaskRejectsMissingResult(t *testing.T) {
	svc, repos := setupTaskService(t)
	ctx := context.Background()

	task := seedTaskWithItems(t, svc, repos, []CheckItemInput{
		{Name: "電源指示燈", ItemType: entity.ItemTypePassFail},
		{Name: "溫度讀數", ItemType: entity.ItemTypeNumber},
	})

	_, err := svc.Complete(ctx, task.ID, &CompleteTaskRequest{
		Items: []CompleteItemInput{
			{ItemID: task.Items[0].ID, Result: "pass"},
		},
	})
	if err == nil {
		t.Fatal("expected error for missing result")
	}

	// 拒绝后无任何落库
	got, _ := repos.Task.FindByID(ctx, task.ID)
	if got.Status != entity.TaskStatusPending {
		t.Errorf("task should stay pending, got %s", got.Status)
	}
	if got.Items[0].Result != nil {
		t.Error("no item result should be written on rejection")
	}
	if _, err := repos.Record.FindByTaskID(ctx, task.ID); err != repository.ErrNotFound {
		t.Errorf("no record should exist, got %v", err)
	}
}

// 结果取值按检查项类型校验
func TestCompleteTaskResultDomainValidation(t *testing.T) {
	svc, repos := setupTaskService(t)
	ctx := context.Background()

	task := seedTaskWithItems(t, svc, repos, []CheckItemInput{
		{Name: "溫度讀數", ItemType: entity.ItemTypeNumber},
	})

	_, err := svc.Complete(ctx, task.ID, &CompleteTaskRequest{
		Items: []CompleteItemInput{
			{ItemID: task.Items[0].ID, Result: "很熱"},
		},
	})
	if err == nil {
		t.Fatal("expected error for non-numeric result on number item")
	}
}

// 已完成的任务不可重复提交
func TestCompleteTaskTwiceRejected(t *testing.T) {
	svc, repos := setupTaskService(t)
	ctx := context.Background()

	task := seedTaskWithItems(t, svc, repos, []CheckItemInput{
		{Name: "電源指示燈", ItemType: entity.ItemTypePassFail},
	})

	_, err := svc.Complete(ctx, task.ID, &CompleteTaskRequest{
		Items: []CompleteItemInput{{ItemID: task.Items[0].ID, Result: "pass"}},
	})
	if err != nil {
		t.Fatalf("first Complete failed: %v", err)
	}

	_, err = svc.Complete(ctx, task.ID, &CompleteTaskRequest{
		Items: []CompleteItemInput{{ItemID: task.Items[0].ID, Result: "fail"}},
	})
	if err == nil {
		t.Fatal("expected error for completing a completed task")
	}
}

// 任务至少包含一个检查项
func TestCreateTaskRequiresItems(t *testing.T) {
	svc, repos := setupTaskService(t)
	ctx := context.Background()

	asset := &entity.Asset{ID: "asset-0002", Name: "倉庫", Type: entity.AssetTypeField}
	if err := repos.Asset.Create(ctx, asset); err != nil {
		t.Fatalf("seed asset: %v", err)
	}

	_, err := svc.Create(ctx, &SaveTaskRequest{
		AssetID:      asset.ID,
		AssignedDate: "2026-03-01",
	})
	if err == nil {
		t.Fatal("expected error for task without items")
	}
}

// 建任务时套用模板：无自带项直接拷贝
func TestCreateTaskCopiesTemplateItems(t *testing.T) {
	svc, repos := setupTaskService(t)
	ctx := context.Background()

	asset := &entity.Asset{ID: "asset-0003", Name: "泵房", Type: entity.AssetTypeField}
	if err := repos.Asset.Create(ctx, asset); err != nil {
		t.Fatalf("seed asset: %v", err)
	}
	template := &entity.Template{ID: "tmpl-0001", Name: "泵房巡檢"}
	if err := repos.Template.Create(ctx, template); err != nil {
		t.Fatalf("seed template: %v", err)
	}
	if err := repos.Template.ReplaceItems(ctx, template.ID, []entity.TemplateItem{
		{ID: "ti-0001", TemplateID: template.ID, Name: "壓力表", ItemType: entity.ItemTypeNumber},
	}); err != nil {
		t.Fatalf("seed template items: %v", err)
	}

	task, err := svc.Create(ctx, &SaveTaskRequest{
		AssetID:      asset.ID,
		AssignedDate: "2026-03-01",
		TemplateID:   &template.ID,
	})
	if err != nil {
		t.Fatalf("Create task failed: %v", err)
	}

	if len(task.Items) != 1 || task.Items[0].Name != "壓力表" {
		t.Errorf("expected template items copied, got %+v", task.Items)
	}
	if task.Items[0].ID == "ti-0001" {
		t.Error("copied task item must not reuse template item id")
	}
}

// 整体替换任务检查项：保存后持久化集合等于提交集合
func TestUpdateTaskReplacesItems(t *testing.T) {
	svc, repos := setupTaskService(t)
	ctx := context.Background()

	task := seedTaskWithItems(t, svc, repos, []CheckItemInput{
		{Name: "舊項一", ItemType: entity.ItemTypeText},
		{Name: "舊項二", ItemType: entity.ItemTypeText},
	})

	updated, err := svc.Update(ctx, task.ID, &SaveTaskRequest{
		AssetID:      task.AssetID,
		AssignedDate: time.Now().Format("2006-01-02"),
		Items: []CheckItemInput{
			{Name: "新項", ItemType: entity.ItemTypePassFail},
		},
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if len(updated.Items) != 1 || updated.Items[0].Name != "新項" {
		t.Errorf("persisted items should equal submitted set: %+v", updated.Items)
	}
}

// 巡检记录按提交时间倒序
func TestRecordListOrder(t *testing.T) {
	svc, repos := setupTaskService(t)
	ctx := context.Background()

	first := seedTaskWithItems(t, svc, repos, []CheckItemInput{
		{Name: "檢查一", ItemType: entity.ItemTypePassFail},
	})
	if _, err := svc.Complete(ctx, first.ID, &CompleteTaskRequest{
		Items: []CompleteItemInput{{ItemID: first.Items[0].ID, Result: "pass"}},
	}); err != nil {
		t.Fatalf("Complete first failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	second, err := svc.Create(ctx, &SaveTaskRequest{
		AssetID:      first.AssetID,
		AssignedDate: time.Now().Format("2006-01-02"),
		Items:        []CheckItemInput{{Name: "檢查二", ItemType: entity.ItemTypePassFail}},
	})
	if err != nil {
		t.Fatalf("Create second failed: %v", err)
	}
	if _, err := svc.Complete(ctx, second.ID, &CompleteTaskRequest{
		Items: []CompleteItemInput{{ItemID: second.Items[0].ID, Result: "fail"}},
	}); err != nil {
		t.Fatalf("Complete second failed: %v", err)
	}

	records, err := repos.Record.List(ctx)
	if err != nil {
		t.Fatalf("List records failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].TaskID != second.ID {
		t.Error("records should be ordered by submitted_at desc")
	}
	if records[0].Task == nil || records[0].Task.Asset == nil {
		t.Error("record listing should preload task and asset")
	}
}
