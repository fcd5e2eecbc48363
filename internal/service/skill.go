package service

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/yourname/devtrack/internal"
	"github.com/yourname/devtrack/internal/storage"
)

func ListSkills(ctx context.Context, skills storage.SkillRepository, user *internal.User) ([]internal.BackendSkill, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	list, err := skills.ListSkills(ctx, user.ID)
	if err != nil {
		return nil, internal.WrapAppError(http.StatusInternalServerError, "Failed to fetch skills", err)
	}
	return list, nil
}

func CreateSkill(ctx context.Context, skills storage.SkillRepository, user *internal.User, form SkillForm) (*internal.BackendSkill, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	in, err := ValidateSkill(form)
	if err != nil {
		return nil, err
	}
	skill := &internal.BackendSkill{
		ID:            uuid.NewString(),
		UserID:        user.ID,
		Skill:         in.Skill,
		Practiced:     in.Practiced,
		UsedInProject: in.UsedInProject,
		Confidence:    in.Confidence,
		CreatedAt:     time.Now().UTC(),
	}
	if err := skills.CreateSkill(ctx, skill); err != nil {
		return nil, mutationFailure(err, "Skill already exists", "Failed to create skill")
	}
	return skill, nil
}

func UpdateSkill(ctx context.Context, skills storage.SkillRepository, user *internal.User, id string, form SkillForm) (*internal.BackendSkill, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	in, err := ValidateSkill(form)
	if err != nil {
		return nil, err
	}
	skill := &internal.BackendSkill{
		ID:            id,
		UserID:        user.ID,
		Skill:         in.Skill,
		Practiced:     in.Practiced,
		UsedInProject: in.UsedInProject,
		Confidence:    in.Confidence,
	}
	if err := skills.UpdateSkill(ctx, skill); err != nil {
		return nil, mutationFailure(err, "Skill already exists", "Failed to update skill")
	}
	return skill, nil
}

func DeleteSkill(ctx context.Context, skills storage.SkillRepository, user *internal.User, id string) error {
	if err := requireUser(user); err != nil {
		return err
	}
	if err := skills.DeleteSkill(ctx, user.ID, id); err != nil {
		return mutationFailure(err, "", "Failed to delete skill")
	}
	return nil
}
