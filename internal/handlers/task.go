package handlers

import (
	"strings"

	"github.com/dimitrije/taskmanager-api/internal/middleware"
	"github.com/dimitrije/taskmanager-api/internal/models"
	"github.com/dimitrije/taskmanager-api/internal/sse"
	"github.com/dimitrije/taskmanager-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/sirupsen/logrus"
)

type TaskHandler struct {
	taskService       TaskServiceInterface
	projectService    ProjectServiceInterface
	assignmentService AssignmentServiceInterface
	access            teamAccess
	events            EventPublisher
	log               logrus.FieldLogger
}

func NewTaskHandler(
	taskService TaskServiceInterface,
	projectService ProjectServiceInterface,
	assignmentService AssignmentServiceInterface,
	teamService TeamServiceInterface,
	events EventPublisher,
	log logrus.FieldLogger,
) *TaskHandler {
	return &TaskHandler{
		taskService:       taskService,
		projectService:    projectService,
		assignmentService: assignmentService,
		access:            teamAccess{teams: teamService},
		events:            events,
		log:               log,
	}
}

func (h *TaskHandler) Create(c *drift.Context) {
	projectID, ok := paramID(c, "id", "project")
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if !bind(c, &req) {
		return
	}

	ctx := c.Request.Context()
	project, err := h.projectService.GetByID(ctx, projectID)
	if err != nil {
		respondError(c, h.log, err, "failed to get project")
		return
	}
	if !h.access.requireManage(c, h.log, project.TeamID, "only team admins and managers can create tasks") {
		return
	}

	task, err := h.taskService.Create(ctx, projectID, req.Title, req.Description)
	if err != nil {
		respondError(c, h.log, err, "failed to create task")
		return
	}
	_ = c.JSON(201, toTaskResponse(task))
}

func (h *TaskHandler) ListByProject(c *drift.Context) {
	projectID, ok := paramID(c, "id", "project")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	project, err := h.projectService.GetByID(ctx, projectID)
	if err != nil {
		respondError(c, h.log, err, "failed to get project")
		return
	}
	if !h.access.requireView(c, h.log, project.TeamID, "project not found") {
		return
	}

	tasks, err := h.taskService.ListByProject(ctx, projectID)
	if err != nil {
		respondError(c, h.log, err, "failed to get tasks")
		return
	}
	_ = c.JSON(200, toTaskResponses(tasks))
}

func (h *TaskHandler) Get(c *drift.Context) {
	taskID, ok := paramID(c, "id", "task")
	if !ok {
		return
	}
	if !h.requireTaskView(c, taskID) {
		return
	}

	task, err := h.taskService.GetByID(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, h.log, err, "failed to get task")
		return
	}
	_ = c.JSON(200, toTaskResponse(task))
}

// Search matches ?q= against titles and descriptions. Callers without
// CapViewAll only search tasks assigned to them.
func (h *TaskHandler) Search(c *drift.Context) {
	keyword := strings.TrimSpace(c.QueryParam("q"))
	if keyword == "" {
		c.BadRequest("q is required")
		return
	}

	ctx := c.Request.Context()
	if middleware.GetUserRole(c).Can(models.CapViewAll) {
		tasks, err := h.taskService.Search(ctx, keyword)
		if err != nil {
			respondError(c, h.log, err, "failed to search tasks")
			return
		}
		_ = c.JSON(200, toTaskResponses(tasks))
		return
	}

	tasks, err := h.taskService.ListByUser(ctx, middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.log, err, "failed to search tasks")
		return
	}

	matched := make([]models.TaskItem, 0, len(tasks))
	for _, t := range tasks {
		if containsFold(t.Title, keyword) || containsFold(t.Description, keyword) {
			matched = append(matched, t)
		}
	}
	_ = c.JSON(200, toTaskResponses(matched))
}

func (h *TaskHandler) ListForUser(c *drift.Context) {
	userID, ok := h.requireSelfOrViewAll(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err, "failed to get tasks")
		return
	}
	_ = c.JSON(200, toTaskResponses(tasks))
}

// Assign binds a user to a task. The assigner defaults to the caller; naming
// someone else requires CapAssignTasks. Callers only assign tasks of teams
// they can see.
func (h *TaskHandler) Assign(c *drift.Context) {
	callerID := middleware.GetUserID(c)

	var req dto.AssignTaskRequest
	if !bind(c, &req) {
		return
	}

	taskID := optionalID(req.TaskID, uuid.Nil)
	userID := optionalID(req.UserID, uuid.Nil)
	assignerID := optionalID(req.AssignerID, callerID)
	if assignerID != callerID && !middleware.GetUserRole(c).Can(models.CapAssignTasks) {
		c.Forbidden("cannot assign on behalf of another user")
		return
	}
	if !h.requireTaskView(c, taskID) {
		return
	}

	assignment, err := h.assignmentService.AssignTask(c.Request.Context(), taskID, userID, assignerID, req.DueDate)
	if err != nil {
		respondError(c, h.log, err, "failed to assign task")
		return
	}

	h.publish(c, assignment, sse.EventTaskAssigned, callerID)
	message(c, 201, "task assigned", toAssignmentResponse(assignment))
}

// Complete marks the caller's assignment, or with CapActForOthers the named
// user's assignment, as completed.
func (h *TaskHandler) Complete(c *drift.Context) {
	callerID := middleware.GetUserID(c)

	var req dto.CompleteTaskRequest
	if !bind(c, &req) {
		return
	}

	taskID := optionalID(req.TaskID, uuid.Nil)
	userID := optionalID(req.UserID, callerID)
	if userID != callerID && !middleware.GetUserRole(c).Can(models.CapActForOthers) {
		c.Forbidden("cannot complete another user's assignment")
		return
	}

	assignment, err := h.assignmentService.CompleteTask(c.Request.Context(), taskID, userID)
	if err != nil {
		respondError(c, h.log, err, "failed to complete task")
		return
	}

	h.publish(c, assignment, sse.EventTaskCompleted, callerID)
	message(c, 200, "task completed", toAssignmentResponse(assignment))
}

// Approve records controller approval. The controller defaults to the
// caller; the service checks that the controller's role may approve.
func (h *TaskHandler) Approve(c *drift.Context) {
	callerID := middleware.GetUserID(c)

	var req dto.ApproveTaskRequest
	if !bind(c, &req) {
		return
	}

	assignmentID := optionalID(req.AssignmentID, uuid.Nil)
	controllerID := optionalID(req.ControllerID, callerID)
	if controllerID != callerID && !middleware.GetUserRole(c).Can(models.CapActForOthers) {
		c.Forbidden("cannot approve on behalf of another user")
		return
	}

	assignment, err := h.assignmentService.ApproveTaskCompletion(c.Request.Context(), assignmentID, controllerID)
	if err != nil {
		respondError(c, h.log, err, "failed to approve task")
		return
	}

	h.publish(c, assignment, sse.EventTaskApproved, callerID)
	message(c, 200, "task approved", toAssignmentResponse(assignment))
}

func (h *TaskHandler) ListAssignments(c *drift.Context) {
	taskID, ok := paramID(c, "id", "task")
	if !ok {
		return
	}
	if !h.requireTaskView(c, taskID) {
		return
	}

	assignments, err := h.assignmentService.ListByTask(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, h.log, err, "failed to get assignments")
		return
	}
	_ = c.JSON(200, toAssignmentResponses(assignments))
}

// ListUserAssignments lists a user's assignments, filtered by
// ?completed=true|false.
func (h *TaskHandler) ListUserAssignments(c *drift.Context) {
	userID, ok := h.requireSelfOrViewAll(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var (
		assignments []models.TaskAssignment
		err         error
	)
	switch c.QueryParam("completed") {
	case "":
		assignments, err = h.assignmentService.ListByUser(ctx, userID)
	case "true":
		assignments, err = h.assignmentService.ListCompletedByUser(ctx, userID)
	case "false":
		assignments, err = h.assignmentService.ListPendingByUser(ctx, userID)
	default:
		c.BadRequest("completed must be true or false")
		return
	}
	if err != nil {
		respondError(c, h.log, err, "failed to get assignments")
		return
	}
	_ = c.JSON(200, toAssignmentResponses(assignments))
}

func (h *TaskHandler) requireTaskView(c *drift.Context, taskID uuid.UUID) bool {
	teamID, err := h.taskService.TeamID(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, h.log, err, "failed to get task")
		return false
	}
	return h.access.requireView(c, h.log, teamID, "task not found")
}

func (h *TaskHandler) requireSelfOrViewAll(c *drift.Context) (uuid.UUID, bool) {
	userID, ok := paramID(c, "id", "user")
	if !ok {
		return uuid.Nil, false
	}
	if userID != middleware.GetUserID(c) && !middleware.GetUserRole(c).Can(models.CapViewAll) {
		c.Forbidden("cannot view another user's tasks")
		return uuid.Nil, false
	}
	return userID, true
}

// publish notifies the task's team. The workflow has already committed, so a
// failed lookup is only logged.
func (h *TaskHandler) publish(c *drift.Context, a *models.TaskAssignment, eventType string, actorID uuid.UUID) {
	teamID, err := h.taskService.TeamID(c.Request.Context(), a.TaskID)
	if err != nil {
		h.log.WithError(err).WithField("task_id", a.TaskID).Warn("failed to resolve team for event")
		return
	}
	h.events.Publish(teamID, eventType, sse.AssignmentEvent{
		AssignmentID: a.ID,
		TaskID:       a.TaskID,
		UserID:       a.UserID,
		ActorID:      actorID,
	})
}
