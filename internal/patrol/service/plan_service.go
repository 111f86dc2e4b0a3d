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

// PlanService 巡检计划服务
type PlanService struct {
	repo         *repository.PlanRepository
	templateRepo *repository.TemplateRepository
	taskRepo     *repository.TaskRepository
}

// NewPlanService 创建巡检计划服务
func NewPlanService(repo *repository.PlanRepository, templateRepo *repository.TemplateRepository, taskRepo *repository.TaskRepository) *PlanService {
	return &PlanService{
		repo:         repo,
		templateRepo: templateRepo,
		taskRepo:     taskRepo,
	}
}

// SavePlanRequest 保存计划请求（创建/更新共用）
type SavePlanRequest struct {
	AssetID      string           `json:"asset_id" binding:"required"`
	TemplateID   *string          `json:"template_id"`
	Frequency    string           `json:"frequency"`
	AssignedUser string           `json:"assigned_user"`
	StartDate    string           `json:"start_date" binding:"required"`
	EndDate      string           `json:"end_date"`
	Description  string           `json:"description"`
	IsActive     *bool            `json:"is_active"`
	Items        []CheckItemInput `json:"items"`
	// 套用模板时工作列表非空的处理方式：replace/append。
	// 列表为空时无条件拷贝模板项，无需指定。
	TemplateMode string `json:"template_mode"`
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// List 获取计划列表
func (s *PlanService) List(ctx context.Context) ([]entity.Plan, error) {
	return s.repo.List(ctx)
}

// Get 获取计划详情（含检查项）
func (s *PlanService) Get(ctx context.Context, id string) (*entity.Plan, error) {
	return s.repo.FindByID(ctx, id)
}

// Create 创建计划。保存后若 start_date 为今天且计划启用，立即生成当日任务。
func (s *PlanService) Create(ctx context.Context, req *SavePlanRequest) (*entity.Plan, error) {
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("开始日期格式不合法: %s", req.StartDate)
	}

	var endDate *time.Time
	if req.EndDate != "" {
		d, err := parseDate(req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("结束日期格式不合法: %s", req.EndDate)
		}
		if d.Before(startDate) {
			return nil, fmt.Errorf("结束日期不能早于开始日期")
		}
		endDate = &d
	}

	frequency := req.Frequency
	if frequency == "" {
		frequency = entity.FrequencyDaily
	}
	if !entity.IsValidFrequency(frequency) {
		return nil, fmt.Errorf("不支持的巡检频率: %s", frequency)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	items, err := s.resolveItems(ctx, req)
	if err != nil {
		return nil, err
	}

	plan := &entity.Plan{
		ID:           uuid.New().String()[:32],
		AssetID:      req.AssetID,
		TemplateID:   req.TemplateID,
		Frequency:    frequency,
		AssignedUser: req.AssignedUser,
		StartDate:    startDate,
		EndDate:      endDate,
		Description:  req.Description,
		IsActive:     isActive,
	}

	if err := s.repo.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("创建计划失败: %w", err)
	}

	if err := s.saveItems(ctx, plan.ID, items); err != nil {
		return nil, err
	}

	if err := s.activateIfDueToday(ctx, plan); err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, plan.ID)
}

// Update 更新计划。请求携带 items 时整体替换检查项，保存后同样检查当日激活。
func (s *PlanService) Update(ctx context.Context, id string, req *SavePlanRequest) (*entity.Plan, error) {
	plan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("开始日期格式不合法: %s", req.StartDate)
	}

	var endDate *time.Time
	if req.EndDate != "" {
		d, err := parseDate(req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("结束日期格式不合法: %s", req.EndDate)
		}
		if d.Before(startDate) {
			return nil, fmt.Errorf("结束日期不能早于开始日期")
		}
		endDate = &d
	}

	if req.Frequency != "" {
		if !entity.IsValidFrequency(req.Frequency) {
			return nil, fmt.Errorf("不支持的巡检频率: %s", req.Frequency)
		}
		plan.Frequency = req.Frequency
	}

	plan.AssetID = req.AssetID
	plan.TemplateID = req.TemplateID
	plan.AssignedUser = req.AssignedUser
	plan.StartDate = startDate
	plan.EndDate = endDate
	plan.Description = req.Description
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}
	plan.Asset = nil
	plan.Items = nil

	if err := s.repo.Update(ctx, plan); err != nil {
		return nil, fmt.Errorf("更新计划失败: %w", err)
	}

	if req.Items != nil || req.TemplateMode != "" {
		items, err := s.resolveItems(ctx, req)
		if err != nil {
			return nil, err
		}
		if err := s.saveItems(ctx, plan.ID, items); err != nil {
			return nil, err
		}
	}

	if err := s.activateIfDueToday(ctx, plan); err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, id)
}

// SaveItems 整体替换计划检查项
func (s *PlanService) SaveItems(ctx context.Context, planID string, inputs []CheckItemInput) error {
	if _, err := s.repo.FindByID(ctx, planID); err != nil {
		return err
	}
	return s.saveItems(ctx, planID, inputs)
}

// Delete 删除计划及其检查项。已生成的任务保留。
func (s *PlanService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// ActivateForDate 为指定日期生成任务：一条 pending 任务加按计划检查项
// （计划无自有项时回退模板项）拷贝的任务检查项，result 置空，单事务写入。
// 同一计划同一日期已有任务时跳过。
func (s *PlanService) ActivateForDate(ctx context.Context, plan *entity.Plan, date time.Time) (*entity.Task, error) {
	exists, err := s.taskRepo.ExistsForPlanOnDate(ctx, plan.ID, date)
	if err != nil {
		return nil, fmt.Errorf("检查当日任务失败: %w", err)
	}
	if exists {
		return nil, nil
	}

	sourceItems, err := s.activationItems(ctx, plan)
	if err != nil {
		return nil, err
	}

	task := &entity.Task{
		ID:           uuid.New().String()[:32],
		PlanID:       &plan.ID,
		AssetID:      plan.AssetID,
		AssignedUser: plan.AssignedUser,
		AssignedDate: time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location()),
		Frequency:    plan.Frequency,
		Description:  plan.Description,
		Status:       entity.TaskStatusPending,
	}

	taskItems := make([]entity.TaskItem, len(sourceItems))
	for i, item := range sourceItems {
		taskItems[i] = entity.TaskItem{
			ID:        uuid.New().String()[:32],
			TaskID:    task.ID,
			Name:      item.Name,
			ItemType:  item.ItemType,
			Options:   item.Options,
			X:         item.X,
			Y:         item.Y,
			SortOrder: i,
			Result:    nil,
		}
	}

	if err := s.taskRepo.CreateWithItems(ctx, task, taskItems); err != nil {
		return nil, fmt.Errorf("生成巡检任务失败: %w", err)
	}

	return task, nil
}

// activateIfDueToday 开始日期为今天且计划启用时，立即生成当日任务
func (s *PlanService) activateIfDueToday(ctx context.Context, plan *entity.Plan) error {
	if !plan.IsActive {
		return nil
	}
	today := time.Now()
	if !sameDate(plan.StartDate, today) {
		return nil
	}
	_, err := s.ActivateForDate(ctx, plan, today)
	return err
}

// activationItems 取激活时拷贝的检查项来源：计划自有项优先，无则回退模板项
func (s *PlanService) activationItems(ctx context.Context, plan *entity.Plan) ([]editor.CheckItem, error) {
	planItems, err := s.repo.ListItems(ctx, plan.ID)
	if err != nil {
		return nil, fmt.Errorf("获取计划检查项失败: %w", err)
	}
	if len(planItems) > 0 {
		out := make([]editor.CheckItem, len(planItems))
		for i, item := range planItems {
			out[i] = editor.CheckItem{
				Name:     item.Name,
				ItemType: item.ItemType,
				Options:  item.Options,
				X:        item.X,
				Y:        item.Y,
			}
		}
		return out, nil
	}

	if plan.TemplateID == nil {
		return nil, nil
	}
	templateItems, err := s.templateRepo.ListItems(ctx, *plan.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("获取模板检查项失败: %w", err)
	}
	out := make([]editor.CheckItem, len(templateItems))
	for i, item := range templateItems {
		out[i] = editor.CheckItem{
			Name:     item.Name,
			ItemType: item.ItemType,
			Options:  item.Options,
			X:        item.X,
			Y:        item.Y,
		}
	}
	return out, nil
}

// resolveItems 计算计划最终的检查项列表：套用模板时按合并规则
// （空列表拷贝，非空按 replace/append）得到工作列表
func (s *PlanService) resolveItems(ctx context.Context, req *SavePlanRequest) ([]CheckItemInput, error) {
	if err := validateItemInputs(req.Items); err != nil {
		return nil, err
	}

	if req.TemplateID == nil {
		return req.Items, nil
	}
	if len(req.Items) > 0 && req.TemplateMode == "" {
		// 已有明确的工作列表且未要求套用模板
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

func (s *PlanService) saveItems(ctx context.Context, planID string, inputs []CheckItemInput) error {
	if err := validateItemInputs(inputs); err != nil {
		return err
	}

	items := make([]entity.PlanItem, len(inputs))
	for i, in := range inputs {
		items[i] = entity.PlanItem{
			ID:        uuid.New().String()[:32],
			PlanID:    planID,
			Name:      in.Name,
			ItemType:  in.ItemType,
			Options:   in.Options,
			X:         in.X,
			Y:         in.Y,
			SortOrder: i,
		}
	}

	if err := s.repo.ReplaceItems(ctx, planID, items); err != nil {
		return fmt.Errorf("保存计划检查项失败: %w", err)
	}
	return nil
}
