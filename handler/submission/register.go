// Package submission handles the interactions around submissions: the
// creation panel, submission forms, the moderation buttons and lookups.
package submission

import (
	"context"
	"time"

	"github.com/TheFungusAmongUs/GeoBot/command/def"
	"github.com/TheFungusAmongUs/GeoBot/handler"
	"github.com/TheFungusAmongUs/GeoBot/model"
	"github.com/TheFungusAmongUs/GeoBot/platform"
	"github.com/TheFungusAmongUs/GeoBot/review"
	"github.com/TheFungusAmongUs/GeoBot/utils"
)

const (
	createPrefix       = "create_submission"
	submitModalPrefix  = "submission_modal"
	denyModalPrefix    = "deny_modal"
	improveModalPrefix = "improve_modal"

	defaultActionTimeout = 30 * time.Second
)

// Handler holds what the interaction handlers share.
type Handler struct {
	cfg       *model.Config
	env       *review.Env
	registry  *review.Registry
	intake    *review.Intake
	pending   *utils.Cache
	directory *platform.Directory
	panel     *Panel
	timeout   time.Duration
}

func New(cfg *model.Config, env *review.Env, registry *review.Registry, pending *utils.Cache, directory *platform.Directory, panel *Panel) *Handler {
	timeout := cfg.Review.ActionTimeout
	if timeout <= 0 {
		timeout = defaultActionTimeout
	}
	return &Handler{
		cfg:       cfg,
		env:       env,
		registry:  registry,
		intake:    review.NewIntake(env, registry),
		pending:   pending,
		directory: directory,
		panel:     panel,
		timeout:   timeout,
	}
}

// RegisterHandlers registers all handlers for the submission package.
func (h *Handler) RegisterHandlers(r *handler.Router) {
	r.AddCommandHandler(def.LookupCommand.Name, h.LookupCommandHandler)
	r.AddCommandHandler(def.PanelCommand.Name, h.PanelCommandHandler)

	// 投稿流程
	r.AddComponentHandler(createPrefix, h.CreateSubmissionButtonHandler)
	r.AddModalHandler(submitModalPrefix, h.SubmissionModalHandler)

	// 审核相关处理器
	r.AddComponentHandler(review.ActionPrefix, h.ReviewButtonHandler)
	r.AddModalHandler(denyModalPrefix, h.DenyModalHandler)
	r.AddModalHandler(improveModalPrefix, h.ImproveModalHandler)
}

func (h *Handler) actionContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), h.timeout)
}

func (h *Handler) isModerator(userID string, roles []string) bool {
	return utils.CheckAuth(h.cfg.Commands.Auth, userID, roles)
}
