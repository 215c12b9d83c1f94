package rules

import "github.com/taskboard/taskboard-api/internal/models"

func isAssignee(actor *models.User, task *models.Task) bool {
	return task.AssigneeID != nil && *task.AssigneeID == actor.ID
}

// CanView reports whether the actor may read the task: creator, assignee, or
// an admin.
func CanView(actor *models.User, task *models.Task) bool {
	return actor.ID == task.CreatorID || isAssignee(actor, task) || actor.IsAdmin()
}

// CanModify reports whether the actor may change the task. Modification
// rights mirror view rights.
func CanModify(actor *models.User, task *models.Task) bool {
	return CanView(actor, task)
}

// CanDelete reports whether the actor may delete the task. Only the creator
// or an admin; an assignee who is not the creator cannot.
func CanDelete(actor *models.User, task *models.Task) bool {
	return actor.ID == task.CreatorID || actor.IsAdmin()
}

// CanAssign reports whether the actor may change the task's assignee. Same
// rights as deletion: creator or admin.
func CanAssign(actor *models.User, task *models.Task) bool {
	return CanDelete(actor, task)
}
