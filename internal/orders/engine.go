package orders

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"freelancehub/internal/models"
)

var (
	ErrNotFound        = errors.New("order not found")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrNotAllowed      = errors.New("you don't have permission to update the order status")
	ErrNotParticipant  = errors.New("you don't have permission to view this order")
	ErrSelfOrder       = errors.New("you cannot order your own service")
	ErrInvalidRating   = errors.New("invalid rating")
	ErrNotClient       = errors.New("only the client can leave a review")
	ErrNotCompleted    = errors.New("you can only review completed orders")
	ErrAlreadyReviewed = errors.New("you have already reviewed this order")
	ErrEmptyMessage    = errors.New("message cannot be empty")
)

// Role is the acting party's relationship to one specific order.
type Role string

const (
	RoleClient     Role = "client"
	RoleFreelancer Role = "freelancer"
	RoleAdmin      Role = "admin"
	RoleNone       Role = ""
)

type transition struct {
	From, To models.OrderStatus
	By       Role
}

// The permission table. Administrators bypass it entirely; everyone
// else needs an exact (from, to, role) hit. Cancelling is open to both
// parties from any non-completed status; completed is terminal for
// non-admins.
var allowed = map[transition]bool{
	{models.OrderPending, models.OrderInProgress, RoleFreelancer}:   true,
	{models.OrderInProgress, models.OrderCompleted, RoleFreelancer}: true,

	{models.OrderPending, models.OrderCancelled, RoleClient}:        true,
	{models.OrderPending, models.OrderCancelled, RoleFreelancer}:    true,
	{models.OrderInProgress, models.OrderCancelled, RoleClient}:     true,
	{models.OrderInProgress, models.OrderCancelled, RoleFreelancer}: true,
	{models.OrderCancelled, models.OrderCancelled, RoleClient}:      true,
	{models.OrderCancelled, models.OrderCancelled, RoleFreelancer}:  true,
}

// Engine implements the order lifecycle: creation, status transitions
// with their system-message side effects, review gating and the
// read-on-view behavior of order threads.
type Engine struct {
	DB *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{DB: db}
}

// Get loads an order with its service, parties and images.
func (e *Engine) Get(id uint) (*models.Order, error) {
	var o models.Order
	err := e.DB.
		Preload("Service").
		Preload("Service.Freelancer").
		Preload("Service.Category").
		Preload("Service.Images").
		Preload("Client").
		First(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// RoleFor resolves the actor's role on this order. The order's Service
// must be loaded.
func (e *Engine) RoleFor(o *models.Order, u *models.User) Role {
	if u == nil {
		return RoleNone
	}
	if u.IsAdmin {
		return RoleAdmin
	}
	if u.ID == o.ClientID {
		return RoleClient
	}
	if o.Service != nil && u.ID == o.Service.FreelancerID {
		return RoleFreelancer
	}
	return RoleNone
}

// CanView reports whether the user may open the order page at all.
func (e *Engine) CanView(o *models.Order, u *models.User) bool {
	return e.RoleFor(o, u) != RoleNone
}

// Create places a new order: always pending, price snapshotted from
// the service, and a notification message posted to the freelancer.
// Self-ordering is rejected before anything is written.
func (e *Engine) Create(serviceID uint, client *models.User, requirements string) (*models.Order, error) {
	var svc models.Service
	if err := e.DB.First(&svc, serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if svc.FreelancerID == client.ID {
		return nil, ErrSelfOrder
	}

	order := models.Order{
		ServiceID:    svc.ID,
		ClientID:     client.ID,
		Status:       models.OrderPending,
		Price:        svc.Price,
		Requirements: requirements,
	}

	err := e.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		note := models.Message{
			SenderID:   client.ID,
			ReceiverID: svc.FreelancerID,
			OrderID:    &order.ID,
			Content:    "You have received a new order for your service: " + svc.Title,
		}
		return tx.Create(&note).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Transition moves an order to the target status if the permission
// table (or the admin bypass) allows it, then posts a system message
// to the non-acting party. completed_at is stamped only on entry into
// completed and nulled otherwise. On any failure nothing is written.
func (e *Engine) Transition(orderID uint, target models.OrderStatus, actor *models.User) (*models.Order, error) {
	if !target.Valid() {
		return nil, ErrInvalidStatus
	}

	o, err := e.Get(orderID)
	if err != nil {
		return nil, err
	}

	role := e.RoleFor(o, actor)
	if role == RoleNone {
		return nil, ErrNotAllowed
	}
	if role != RoleAdmin && !allowed[transition{o.Status, target, role}] {
		return nil, ErrNotAllowed
	}

	var completedAt *time.Time
	if target == models.OrderCompleted {
		now := time.Now().UTC()
		completedAt = &now
	}

	err = e.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).Where("id = ?", o.ID).
			Updates(map[string]interface{}{
				"status":       target,
				"completed_at": completedAt,
			})
		if res.Error != nil {
			return res.Error
		}

		msg := models.Message{
			SenderID:   actor.ID,
			ReceiverID: e.otherParty(o, actor.ID),
			OrderID:    &o.ID,
			Content:    "Order status updated to " + target.Label(),
		}
		return tx.Create(&msg).Error
	})
	if err != nil {
		return nil, err
	}

	o.Status = target
	o.CompletedAt = completedAt
	return o, nil
}

// otherParty picks the recipient of a system message: the freelancer
// when the actor is the client, the client otherwise.
func (e *Engine) otherParty(o *models.Order, actorID uint) uint {
	if actorID == o.ClientID {
		return o.Service.FreelancerID
	}
	return o.ClientID
}

// SubmitReview inserts the order's single review. Gated on: valid
// rating, actor is the client, order completed, no prior review.
func (e *Engine) SubmitReview(orderID uint, actor *models.User, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}

	o, err := e.Get(orderID)
	if err != nil {
		return err
	}
	if actor.ID != o.ClientID {
		return ErrNotClient
	}
	if o.Status != models.OrderCompleted {
		return ErrNotCompleted
	}

	var count int64
	if err := e.DB.Model(&models.Review{}).Where("order_id = ?", o.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrAlreadyReviewed
	}

	review := models.Review{
		OrderID: o.ID,
		Rating:  rating,
		Comment: comment,
	}
	return e.DB.Create(&review).Error
}

// Review returns the order's review, or nil when none exists yet.
func (e *Engine) Review(orderID uint) (*models.Review, error) {
	var r models.Review
	err := e.DB.Where("order_id = ?", orderID).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Messages returns the order's thread, oldest first.
func (e *Engine) Messages(orderID uint) ([]models.Message, error) {
	var msgs []models.Message
	err := e.DB.
		Preload("Sender").
		Where("order_id = ?", orderID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	return msgs, err
}

// MarkThreadRead marks every message addressed to the viewer on this
// order as read. Re-viewing an already-read thread is a no-op.
func (e *Engine) MarkThreadRead(orderID, viewerID uint) error {
	return e.DB.Model(&models.Message{}).
		Where("order_id = ? AND receiver_id = ? AND is_read = ?", orderID, viewerID, false).
		Update("is_read", true).Error
}

// PostMessage adds a human-typed message to the order thread.
func (e *Engine) PostMessage(o *models.Order, sender *models.User, content string) error {
	if content == "" {
		return ErrEmptyMessage
	}
	msg := models.Message{
		SenderID:   sender.ID,
		ReceiverID: e.otherParty(o, sender.ID),
		OrderID:    &o.ID,
		Content:    content,
	}
	return e.DB.Create(&msg).Error
}
