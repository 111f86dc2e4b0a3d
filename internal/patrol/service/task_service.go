package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldray/patrol/internal/patrol/editor"
	"github.com/fieldray/patrol/internal/patrol/entity"
	"github.com/fieldray/patrol/internal/patrol/repository"
	"github.com/google/uuid"
)

// TaskService 巡检任务服务
type TaskService struct {
	repo         *repository.TaskRepository
	templateRepo *repository.TemplateRepository
	recordRepo   *repository.RecordRepository
}

// NewTaskService 创建巡检任务服务
func NewTaskService(repo *repository.TaskRepository, templateRepo *repository.TemplateRepository, recordRepo *repository.RecordRepository) *TaskService {
	return &TaskService{
		repo:         repo,
		templateRepo: templateRepo,
		recordRepo:   recordRepo,
	}
}

// SaveTaskRequest 保存任务请求（管理员直接建任务）
type SaveTaskRequest struct {
	AssetID      string           `json:"asset_id" binding:"required"`
	AssignedUser string           `json:"assigned_user"`
	AssignedDate string           `json:"assigned_date" binding:"required"`
	Frequency    string           `json:"frequency"`
	Description  string           `json:"description"`
	TemplateID   *string          `json:"template_id"`
	TemplateMode string           `json:"template_mode"`
	Items        []CheckItemInput `json:"items"`
}

// CompleteItemInput 单项执行结果
type CompleteItemInput struct {
	ItemID string `json:"item_id" binding:"required"`
	Result string `json:"result"`
	Notes  string `json:"notes"`
}

// CompleteTaskRequest 提交任务请求
type CompleteTaskRequest struct {
	Items []CompleteItemInput `json:"items" binding:"required"`
}

// List 获取任务列表
func (s *TaskService) List(ctx context.Context, filter repository.TaskFilter) ([]entity.Task, error) {
	return s.repo.List(ctx, filter)
}

// ListPending 获取待执行任务，按指派日期正序
func (s *TaskService) ListPending(ctx context.Context) ([]entity.Task, error) {
	return s.repo.ListPending(ctx)
}

// Get 获取任务详情（含检查项）
func (s *TaskService) Get(ctx context.Context, id string) (*entity.Task, error) {
	return s.repo.FindByID(ctx, id)
}

// Create 创建任务及其检查项。任务必须至少携带一个检查项。
func (s *TaskService) Create(ctx context.Context, req *SaveTaskRequest) (*entity.Task, error) {
	assignedDate, err := parseDate(req.AssignedDate)
	if err != nil {
		return nil, fmt.Errorf("指派日期格式不合法: %s", req.AssignedDate)
	}

	items, err := s.resolveItems(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("任务必须至少包含一个检查项")
	}

	task := &entity.Task{
		ID:           uuid.New().String()[:32],
		AssetID:      req.AssetID,
		AssignedUser: req.AssignedUser,
		AssignedDate: assignedDate,
		Frequency:    req.Frequency,
		Description:  req.Description,
		Status:       entity.TaskStatusPending,
	}

	taskItems := make([]entity.TaskItem, len(items))
	for i, in := range items {
		taskItems[i] = entity.TaskItem{
			ID:        uuid.New().String()[:32],
			TaskID:    task.ID,
			Name:      in.Name,
			ItemType:  in.ItemType,
			Options:   in.Options,
			X:         in.X,
			Y:         in.Y,
			SortOrder: i,
		}
	}

	if err := s.repo.CreateWithItems(ctx, task, taskItems); err != nil {
		return nil, fmt.Errorf("创建任务失败: %w", err)
	}

	return s.repo.FindByID(ctx, task.ID)
}

// Update 更新任务。已完成的任务不可修改；请求携带 items 时整体替换检查项。
func (s *TaskService) Update(ctx context.Context, id string, req *SaveTaskRequest) (*entity.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.Status == entity.TaskStatusCompleted {
		return nil, fmt.Errorf("任务已完成，不可修改")
	}

	assignedDate, err := parseDate(req.AssignedDate)
	if err != nil {
		return nil, fmt.Errorf("指派日期格式不合法: %s", req.AssignedDate)
	}

	task.AssetID = req.AssetID
	task.AssignedUser = req.AssignedUser
	task.AssignedDate = assignedDate
	task.Frequency = req.Frequency
	task.Description = req.Description
	task.Asset = nil
	task.Items = nil

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("更新任务失败: %w", err)
	}

	if req.Items != nil {
		items, err := s.resolveItems(ctx, req)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, fmt.Errorf("任务必须至少包含一个检查项")
		}

		taskItems := make([]entity.TaskItem, len(items))
		for i, in := range items {
			taskItems[i] = entity.TaskItem{
				ID:        uuid.New().String()[:32],
				TaskID:    id,
				Name:      in.Name,
				ItemType:  in.ItemType,
				Options:   in.Options,
				X:         in.X,
				Y:         in.Y,
				SortOrder: i,
			}
		}
		if err := s.repo.ReplaceItems(ctx, id, taskItems); err != nil {
			return nil, fmt.Errorf("保存任务检查项失败: %w", err)
		}
	}

	return s.repo.FindByID(ctx, id)
}

// Delete 删除任务及其检查项
func (s *TaskService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Complete 提交任务执行结果。所有检查项必须有非空结果，否则整体拒绝且
// 不产生任何写入；通过校验后在同一事务内写入各项结果、生成一条巡检
// 记录（任一结果属于失败集合则整体 fail）、将任务翻转为 completed。
func (s *TaskService) Complete(ctx context.Context, id string, req *CompleteTaskRequest) (*entity.Record, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.Status == entity.TaskStatusCompleted {
		return nil, fmt.Errorf("任务已完成，不可重复提交")
	}

	inputs := make(map[string]CompleteItemInput, len(req.Items))
	for _, in := range req.Items {
		inputs[in.ItemID] = in
	}

	// 先整体校验，再落库
	failed := false
	updated := make([]entity.TaskItem, len(task.Items))
	for i, item := range task.Items {
		in, ok := inputs[item.ID]
		if !ok || in.Result == "" {
			return nil, fmt.Errorf("检查项「%s」尚未填写结果", item.Name)
		}
		if err := entity.ValidateResult(item.ItemType, in.Result, item.Options); err != nil {
			return nil, fmt.Errorf("检查项「%s」: %w", item.Name, err)
		}
		if entity.IsFailResult(in.Result) {
			failed = true
		}

		result := in.Result
		updated[i] = item
		updated[i].Result = &result
		updated[i].Notes = in.Notes
	}

	aggregate := entity.ResultPass
	if failed {
		aggregate = entity.ResultFail
	}

	record := &entity.Record{
		ID:          uuid.New().String()[:32],
		TaskID:      task.ID,
		Result:      aggregate,
		Notes:       fmt.Sprintf("完成 %d 項檢查項目", len(updated)),
		SubmittedAt: time.Now(),
	}

	if err := s.repo.Complete(ctx, task, updated, record); err != nil {
		return nil, fmt.Errorf("提交任务失败: %w", err)
	}

	return record, nil
}

// resolveItems 计算任务最终的检查项列表：套用模板时按合并规则处理
func (s *TaskService) resolveItems(ctx context.Context, req *SaveTaskRequest) ([]CheckItemInput, error) {
	if err := validateItemInputs(req.Items); err != nil {
		return nil, err
	}

	if req.TemplateID == nil {
		return req.Items, nil
	}
	if len(req.Items) > 0 && req.TemplateMode == "" {
		return req.Items, nil
	}

	templateItems, err := s.templateRepo.ListItems(ctx, *req.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("获取模板检查项失败: %w", err)
	}

	existing := make([]editor.CheckItem, len(req.Items))
	for i, in := range req.Items {
		existing[i] = editor.CheckItem{Name: in.Name, ItemType: in.ItemType, Options: in.Options, X: in.X, Y: in.Y}
	}
	incoming := make([]editor.CheckItem, len(templateItems))
	for i, item := range templateItems {
		incoming[i] = editor.CheckItem{Name: item.Name, ItemType: item.ItemType, Options: item.Options, X: item.X, Y: item.Y}
	}

	merged, err := editor.Merge(existing, incoming, editor.MergeMode(req.TemplateMode))
	if err != nil {
		return nil, err
	}

	out := make([]CheckItemInput, len(merged))
	for i, item := range merged {
		out[i] = CheckItemInput{Name: item.Name, ItemType: item.ItemType, Options: item.Options, X: item.X, Y: item.Y}
	}
	return out, nil
}

// RecordService 巡检记录服务
type RecordService struct {
	repo *repository.RecordRepository
}

// NewRecordService 创建巡检记录服务
func NewRecordService(repo *repository.RecordRepository) *RecordService {
	return &RecordService{repo: repo}
}

// List 获取巡检记录，按提交时间倒序
func (s *RecordService) List(ctx context.Context) ([]entity.Record, error) {
	return s.repo.List(ctx)
}

// Get 获取巡检记录详情
func (s *RecordService) Get(ctx context.Context, id string) (*entity.Record, error) {
	return s.repo.FindByID(ctx, id)
}
