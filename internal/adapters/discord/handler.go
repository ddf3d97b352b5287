package discord

import (
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"invitefeed/internal/application"
	"invitefeed/internal/domain/entities"
	"invitefeed/internal/ports/input"
	"invitefeed/internal/ports/output"
)

var (
	_ input.FeedUseCase       = (*application.FeedService)(nil)
	_ input.MembershipUseCase = (*application.MembershipService)(nil)
)

// detailLifetime bounds how long a detail message is kept live. Interaction
// tokens expire after 15 minutes.
const detailLifetime = 14 * time.Minute

// Handler handles Discord interactions using use cases.
type Handler struct {
	feed       input.FeedUseCase
	membership input.MembershipUseCase
	t          output.T
	locale     string
	logger     *slog.Logger
	now        func() time.Time

	mu       sync.Mutex
	watching map[string]*watch // par utilisateur
}

type watch struct {
	view  *application.DetailView
	timer *time.Timer
}

// NewHandler creates a Handler. locale is used when an interaction carries
// none.
func NewHandler(
	feed input.FeedUseCase,
	membership input.MembershipUseCase,
	t output.T,
	locale string,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		feed:       feed,
		membership: membership,
		t:          t,
		locale:     locale,
		logger:     logger,
		now:        time.Now,
		watching:   make(map[string]*watch),
	}
}

func viewerFrom(i *discordgo.InteractionCreate) *entities.Viewer {
	switch {
	case i.Member != nil && i.Member.User != nil:
		return &entities.Viewer{ID: i.Member.User.ID}
	case i.User != nil:
		return &entities.Viewer{ID: i.User.ID}
	default:
		return nil
	}
}

func (h *Handler) localeOf(i *discordgo.InteractionCreate) string {
	if i.Locale != "" {
		return string(i.Locale)
	}
	return h.locale
}

// CloseAll stops every live detail message.
func (h *Handler) CloseAll() {
	h.mu.Lock()
	all := h.watching
	h.watching = make(map[string]*watch)
	h.mu.Unlock()
	for _, w := range all {
		w.timer.Stop()
		w.view.Close()
	}
}
