// Package order implements the checkout state machine: it validates input
// per step, accumulates fields across turns, computes the total once and
// commits the finalized order exactly once.
package order

import (
	"context"
	"strings"

	"log/slog"

	"github.com/streeteda/streeteda/core/logger"
	"github.com/streeteda/streeteda/internal/domain"
	"github.com/streeteda/streeteda/internal/repository"
	"github.com/streeteda/streeteda/internal/session"
)

const (
	phoneMinDigits = 10
	phoneMaxDigits = 15
	addressMinLen  = 6
)

// noCommentSentinels are treated as "no comment" (case-insensitive exact match).
var noCommentSentinels = map[string]struct{}{
	"нет": {},
	"no":  {},
	"-":   {},
}

// InputKind distinguishes free text from a structured contact payload.
type InputKind string

const (
	InputText    InputKind = "text"
	InputContact InputKind = "contact"
)

// Input is one inbound user turn.
type Input struct {
	Kind  InputKind
	Text  string
	Phone string // set for InputContact
}

// Kind classifies an engine reply.
type Kind string

const (
	KindNone       Kind = ""
	KindPrompt     Kind = "prompt"
	KindError      Kind = "error"
	KindCompletion Kind = "completion"
)

// Code identifies the reply for rendering by the transport layer.
type Code string

const (
	CodeAskName    Code = "ask_name"
	CodeAskPhone   Code = "ask_phone"
	CodeAskMode    Code = "ask_mode"
	CodeAskAddress Code = "ask_address"
	CodeAskComment Code = "ask_comment"
	CodeConfirm    Code = "confirm"

	CodeEmptyName      Code = "empty_name"
	CodeInvalidPhone   Code = "invalid_phone"
	CodeInvalidMode    Code = "invalid_mode"
	CodeInvalidAddress Code = "invalid_address"

	CodeCartEmpty  Code = "cart_empty"
	CodeStoreRetry Code = "store_retry"

	CodeOrderPlaced Code = "order_placed"
	CodeCancelled   Code = "cancelled"
)

// Review is the priced snapshot shown for final confirmation.
type Review struct {
	Lines    []domain.CartLine
	Subtotal int64
	Fee      int64
	Total    int64
	Name     string
	Phone    string
	Mode     domain.DeliveryMode
	Address  string
	Comment  string
}

// Reply is the engine's outbound result; rendering is the transport's job.
type Reply struct {
	Kind    Kind
	Code    Code
	Review  *Review
	OrderID int64
}

// Committed describes a durably recorded order handed to the sink.
type Committed struct {
	OrderID int64
	Review  Review
	UserID  int64
}

// Sink receives committed orders. Failures inside the sink must never
// unwind the commit; the engine ignores its outcome entirely.
type Sink interface {
	OrderCommitted(ctx context.Context, ord Committed)
}

// Engine drives the checkout dialogue for all users.
type Engine struct {
	sessions *session.Store
	cart     repository.CartStore
	settings repository.SettingsStore
	orders   repository.OrderStore
	sink     Sink
}

// NewEngine wires the checkout engine.
func NewEngine(sessions *session.Store, cart repository.CartStore, settings repository.SettingsStore, orders repository.OrderStore, sink Sink) *Engine {
	return &Engine{
		sessions: sessions,
		cart:     cart,
		settings: settings,
		orders:   orders,
		sink:     sink,
	}
}

// InProgress reports whether the user is inside the checkout dialogue.
func (e *Engine) InProgress(userID int64) bool {
	return e.sessions.Step(userID).OrderFlow()
}

// Begin starts checkout. A prior session of any flow is discarded.
// The cart must be non-empty to enter the dialogue at all.
func (e *Engine) Begin(ctx context.Context, userID int64) (Reply, error) {
	lines, err := e.cart.Lines(ctx, userID)
	if err != nil {
		return Reply{Kind: KindError, Code: CodeStoreRetry}, err
	}
	if len(lines) == 0 {
		return Reply{Kind: KindError, Code: CodeCartEmpty}, nil
	}

	e.sessions.Begin(userID, session.StepAwaitingName)
	logger.Info(ctx, "service.orders", "checkout.started",
		slog.Int64("user_id", userID),
		slog.Int("lines", len(lines)),
	)
	return Reply{Kind: KindPrompt, Code: CodeAskName}, nil
}

// Handle processes one free-form turn according to the current step.
// Input received while idle is ignored by this engine.
func (e *Engine) Handle(ctx context.Context, userID int64, in Input) (Reply, error) {
	step := e.sessions.Step(userID)
	switch step {
	case session.StepAwaitingName:
		return e.handleName(ctx, userID, in)
	case session.StepAwaitingPhone:
		return e.handlePhone(ctx, userID, in)
	case session.StepAwaitingDeliveryMode:
		// Modes arrive as structured selections; free text re-prompts.
		return Reply{Kind: KindError, Code: CodeInvalidMode}, nil
	case session.StepAwaitingAddress:
		return e.handleAddress(ctx, userID, in)
	case session.StepAwaitingComment:
		return e.handleComment(ctx, userID, in)
	case session.StepAwaitingFinalConfirmation:
		// Only the confirm and cancel triggers advance from here;
		// free text is ignored and the confirmation stays on screen.
		return Reply{}, nil
	}
	return Reply{}, nil
}

func (e *Engine) handleName(_ context.Context, userID int64, in Input) (Reply, error) {
	name := strings.TrimSpace(in.Text)
	if name == "" {
		return Reply{Kind: KindError, Code: CodeEmptyName}, nil
	}
	e.sessions.UpdateOrder(userID, session.StepAwaitingPhone, func(d *session.OrderDraft) {
		d.Name = name
	})
	return Reply{Kind: KindPrompt, Code: CodeAskPhone}, nil
}

// handlePhone accepts a contact payload as-is; free text must contain
// 10 to 15 digits after stripping everything else.
func (e *Engine) handlePhone(_ context.Context, userID int64, in Input) (Reply, error) {
	var phone string
	if in.Kind == InputContact {
		phone = strings.TrimSpace(in.Phone)
		if phone == "" {
			return Reply{Kind: KindError, Code: CodeInvalidPhone}, nil
		}
	} else {
		digits := stripNonDigits(in.Text)
		if len(digits) < phoneMinDigits || len(digits) > phoneMaxDigits {
			return Reply{Kind: KindError, Code: CodeInvalidPhone}, nil
		}
		phone = digits
	}
	e.sessions.UpdateOrder(userID, session.StepAwaitingDeliveryMode, func(d *session.OrderDraft) {
		d.Phone = phone
	})
	return Reply{Kind: KindPrompt, Code: CodeAskMode}, nil
}

// ChooseMode handles the delivery-mode selection trigger.
func (e *Engine) ChooseMode(ctx context.Context, userID int64, mode domain.DeliveryMode) (Reply, error) {
	if e.sessions.Step(userID) != session.StepAwaitingDeliveryMode {
		return Reply{}, nil
	}
	if !mode.Valid() {
		return Reply{Kind: KindError, Code: CodeInvalidMode}, nil
	}

	next := session.StepAwaitingComment
	code := CodeAskComment
	if mode == domain.DeliveryModeDelivery {
		next = session.StepAwaitingAddress
		code = CodeAskAddress
	}
	e.sessions.UpdateOrder(userID, next, func(d *session.OrderDraft) {
		d.Mode = mode
	})
	return Reply{Kind: KindPrompt, Code: code}, nil
}

func (e *Engine) handleAddress(_ context.Context, userID int64, in Input) (Reply, error) {
	addr := strings.TrimSpace(in.Text)
	if len([]rune(addr)) < addressMinLen {
		return Reply{Kind: KindError, Code: CodeInvalidAddress}, nil
	}
	e.sessions.UpdateOrder(userID, session.StepAwaitingComment, func(d *session.OrderDraft) {
		d.Address = addr
	})
	return Reply{Kind: KindPrompt, Code: CodeAskComment}, nil
}

// handleComment always advances and triggers the checkout computation:
// the live cart and settings are read, the total is computed once and
// cached in the session so the confirmed amount is the committed amount.
func (e *Engine) handleComment(ctx context.Context, userID int64, in Input) (Reply, error) {
	comment := strings.TrimSpace(in.Text)
	if _, skip := noCommentSentinels[strings.ToLower(comment)]; skip {
		comment = ""
	}

	lines, err := e.cart.Lines(ctx, userID)
	if err != nil {
		return Reply{Kind: KindError, Code: CodeStoreRetry}, err
	}
	if len(lines) == 0 {
		e.sessions.Clear(userID)
		logger.Warn(ctx, "service.orders", "checkout.aborted",
			slog.Int64("user_id", userID),
			slog.String("reason", "cart_empty"),
		)
		return Reply{Kind: KindError, Code: CodeCartEmpty}, nil
	}
	cfg, err := e.settings.Get(ctx)
	if err != nil {
		return Reply{Kind: KindError, Code: CodeStoreRetry}, err
	}

	draft := e.sessions.Get(userID).Order
	subtotal := domain.Subtotal(lines)
	fee := deliveryFee(draft.Mode, subtotal, cfg)
	total := subtotal + fee

	e.sessions.UpdateOrder(userID, session.StepAwaitingFinalConfirmation, func(d *session.OrderDraft) {
		d.Comment = comment
		d.Total = total
		d.TotalComputed = true
	})

	review := &Review{
		Lines:    lines,
		Subtotal: subtotal,
		Fee:      fee,
		Total:    total,
		Name:     draft.Name,
		Phone:    draft.Phone,
		Mode:     draft.Mode,
		Address:  draft.Address,
		Comment:  comment,
	}
	logger.Info(ctx, "service.orders", "checkout.computed",
		slog.Int64("user_id", userID),
		slog.Int("lines", len(lines)),
		slog.Int64("subtotal", subtotal),
		slog.Int64("fee", fee),
		slog.Int64("total", total),
	)
	return Reply{Kind: KindPrompt, Code: CodeConfirm, Review: review}, nil
}

// Confirm performs the commit: the cart is re-read, frozen into order
// lines and cleared together with the order insert in one transaction.
// The cached total is committed verbatim.
func (e *Engine) Confirm(ctx context.Context, userID int64) (Reply, error) {
	sess := e.sessions.Get(userID)
	if sess.Step != session.StepAwaitingFinalConfirmation || !sess.Order.TotalComputed {
		return Reply{}, nil
	}

	lines, err := e.cart.Lines(ctx, userID)
	if err != nil {
		return Reply{Kind: KindError, Code: CodeStoreRetry}, err
	}
	if len(lines) == 0 {
		e.sessions.Clear(userID)
		logger.Warn(ctx, "service.orders", "commit.aborted",
			slog.Int64("user_id", userID),
			slog.String("reason", "cart_empty"),
		)
		return Reply{Kind: KindError, Code: CodeCartEmpty}, nil
	}

	draft := sess.Order
	snap := domain.OrderSnapshot{
		UserID:       userID,
		UserName:     draft.Name,
		PhoneNumber:  draft.Phone,
		DeliveryType: draft.Mode,
		Address:      draft.Address,
		Comment:      draft.Comment,
		TotalAmount:  draft.Total,
	}
	for _, l := range lines {
		snap.Lines = append(snap.Lines, domain.OrderLine{
			ItemName:     l.Name,
			Quantity:     l.Quantity,
			PricePerItem: l.Price,
		})
	}

	orderID, err := e.orders.Create(ctx, snap)
	if err != nil {
		// Session untouched so the confirm trigger can be retried.
		return Reply{Kind: KindError, Code: CodeStoreRetry}, err
	}

	if e.sink != nil {
		subtotal := domain.Subtotal(lines)
		e.sink.OrderCommitted(ctx, Committed{
			OrderID: orderID,
			UserID:  userID,
			Review: Review{
				Lines:    lines,
				Subtotal: subtotal,
				Fee:      draft.Total - subtotal,
				Total:    draft.Total,
				Name:     draft.Name,
				Phone:    draft.Phone,
				Mode:     draft.Mode,
				Address:  draft.Address,
				Comment:  draft.Comment,
			},
		})
	}

	e.sessions.Clear(userID)
	logger.Info(ctx, "service.orders", "order.placed",
		slog.Int64("user_id", userID),
		slog.Int64("order_id", orderID),
		slog.Int64("total", draft.Total),
	)
	return Reply{Kind: KindCompletion, Code: CodeOrderPlaced, OrderID: orderID}, nil
}

// Cancel aborts the dialogue at the confirmation step with no side effect
// on cart or catalog.
func (e *Engine) Cancel(ctx context.Context, userID int64) (Reply, error) {
	if !e.sessions.Step(userID).OrderFlow() {
		return Reply{}, nil
	}
	e.sessions.Clear(userID)
	logger.Info(ctx, "service.orders", "checkout.cancelled",
		slog.Int64("user_id", userID),
	)
	return Reply{Kind: KindCompletion, Code: CodeCancelled}, nil
}

// deliveryFee applies the fee only for delivery below the free threshold.
func deliveryFee(mode domain.DeliveryMode, subtotal int64, cfg domain.Settings) int64 {
	if mode != domain.DeliveryModeDelivery {
		return 0
	}
	if subtotal >= cfg.FreeDeliveryThreshold {
		return 0
	}
	return cfg.DeliveryFee
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
