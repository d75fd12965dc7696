package handlers

import (
	"github.com/dimitrije/taskmanager-api/internal/models"
	"github.com/dimitrije/taskmanager-api/pkg/dto"
)

func toUserResponse(u *models.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func toUserResponses(users []models.User) []dto.UserResponse {
	out := make([]dto.UserResponse, len(users))
	for i := range users {
		out[i] = *toUserResponse(&users[i])
	}
	return out
}

func toTeamResponse(t *models.Team, role models.Role) *dto.TeamResponse {
	if t == nil {
		return nil
	}
	return &dto.TeamResponse{
		ID:        t.ID,
		Name:      t.Name,
		OwnerID:   t.OwnerID,
		Role:      string(role),
		CreatedAt: t.CreatedAt,
	}
}

func toMemberResponses(members []models.TeamMember) []dto.TeamMemberResponse {
	out := make([]dto.TeamMemberResponse, len(members))
	for i, m := range members {
		out[i] = dto.TeamMemberResponse{
			ID:       m.ID,
			UserID:   m.UserID,
			Role:     string(m.Role),
			JoinedAt: m.CreatedAt,
			User:     toUserResponse(m.User),
		}
	}
	return out
}

func toInvitationResponse(inv *models.Invitation) dto.InvitationResponse {
	return dto.InvitationResponse{
		ID:        inv.ID,
		TeamID:    inv.TeamID,
		UserID:    inv.UserID,
		InviterID: inv.InviterID,
		Status:    string(inv.Status),
		CreatedAt: inv.CreatedAt,
		Team:      toTeamResponse(inv.Team, ""),
		Inviter:   toUserResponse(inv.Inviter),
		Invitee:   toUserResponse(inv.Invitee),
	}
}

func toInvitationResponses(invs []models.Invitation) []dto.InvitationResponse {
	out := make([]dto.InvitationResponse, len(invs))
	for i := range invs {
		out[i] = toInvitationResponse(&invs[i])
	}
	return out
}

func toProjectResponse(p *models.Project) dto.ProjectResponse {
	return dto.ProjectResponse{
		ID:          p.ID,
		TeamID:      p.TeamID,
		Title:       p.Title,
		Description: p.Description,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProjectResponses(projects []models.Project) []dto.ProjectResponse {
	out := make([]dto.ProjectResponse, len(projects))
	for i := range projects {
		out[i] = toProjectResponse(&projects[i])
	}
	return out
}

func toTaskResponse(t *models.TaskItem) *dto.TaskResponse {
	if t == nil {
		return nil
	}
	return &dto.TaskResponse{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		Title:       t.Title,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
}

func toTaskResponses(tasks []models.TaskItem) []dto.TaskResponse {
	out := make([]dto.TaskResponse, len(tasks))
	for i := range tasks {
		out[i] = *toTaskResponse(&tasks[i])
	}
	return out
}

func toAssignmentResponse(a *models.TaskAssignment) dto.AssignmentResponse {
	return dto.AssignmentResponse{
		ID:          a.ID,
		TaskID:      a.TaskID,
		UserID:      a.UserID,
		AssignedBy:  a.AssignedBy,
		State:       string(a.State()),
		DueDate:     a.DueDate,
		IsCompleted: a.IsCompleted,
		IsApproved:  a.IsApprovedByController,
		CompletedAt: a.CompletedAt,
		ApprovedAt:  a.ApprovedAt,
		ApprovedBy:  a.ApprovedBy,
		CreatedAt:   a.CreatedAt,
		Task:        toTaskResponse(a.Task),
		User:        toUserResponse(a.User),
	}
}

func toAssignmentResponses(assignments []models.TaskAssignment) []dto.AssignmentResponse {
	out := make([]dto.AssignmentResponse, len(assignments))
	for i := range assignments {
		out[i] = toAssignmentResponse(&assignments[i])
	}
	return out
}
