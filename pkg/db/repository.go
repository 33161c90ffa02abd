package db

import (
	"errors"
	"math"
	"time"

	"github.com/Kareemashraf12/YallaR7la/pkg/models"
	"gorm.io/gorm"
)

// Sentinel errors for domain-level failures. Handlers map these to HTTP
// status codes; gorm.ErrRecordNotFound never leaves this package unclassified.
var (
	ErrNotFound          = errors.New("destination not found")
	ErrUnavailable       = errors.New("destination is not currently available")
	ErrFullyBooked       = errors.New("destination is fully booked")
	ErrDuplicateFavorite = errors.New("destination is already a favorite")
	ErrCapacityExceeded  = errors.New("release would exceed destination capacity")
)

type DestinationSummary struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	Description   string `json:"description"`
	AverageRating int    `json:"average_rating"`
}

type CommentData struct {
	FeedbackID  uint      `json:"feedback_id"`
	Content     string    `json:"content"`
	SubmittedAt time.Time `json:"submitted_at"`
	Username    string    `json:"username"`
}

type FeedbackResult struct {
	NewAverageRating int `json:"new_average_rating"`
	TotalComments    int `json:"total_comments"`
}

type TimeSeriesData struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type OwnerStatsData struct {
	DestinationCount int              `json:"destination_count"`
	SlotsRemaining   int              `json:"slots_remaining"`
	AverageRating    float64          `json:"average_rating"`
	FeedbackOverTime []TimeSeriesData `json:"feedback_over_time"`
}

// Repository provides database operations for specific models
type Repository struct {
	db *DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) DB() *DB {
	return r.db
}

// User repository methods
func (r *Repository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *Repository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	return &user, err
}

func (r *Repository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	return &user, err
}

// Destination repository methods
func (r *Repository) CreateDestination(destination *models.Destination) error {
	return r.db.Create(destination).Error
}

// GetAvailableDestinations returns one page of the catalog listing for
// travelers: available destinations only, best rated first.
func (r *Repository) GetAvailableDestinations(limit, offset int) ([]DestinationSummary, error) {
	var summaries []DestinationSummary
	err := r.db.Model(&models.Destination{}).
		Select("name, category, description, average_rating").
		Where("is_available = ?", true).
		Order("average_rating DESC").
		Limit(limit).
		Offset(offset).
		Scan(&summaries).Error
	return summaries, err
}

func (r *Repository) CountAvailableDestinations() (int, error) {
	var count int64
	err := r.db.Model(&models.Destination{}).
		Where("is_available = ?", true).
		Count(&count).Error
	return int(count), err
}

func (r *Repository) GetDestinationByID(id string) (*models.Destination, error) {
	var destination models.Destination
	err := r.db.Preload("Images").
		Preload("Feedbacks").
		Preload("Feedbacks.User").
		Where("destination_id = ?", id).
		First(&destination).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &destination, err
}

func (r *Repository) GetDestinationsByCategory(category string) ([]models.Destination, error) {
	var destinations []models.Destination
	err := r.db.Where("LOWER(category) = LOWER(?) AND is_available = ?", category, true).
		Order("average_rating DESC").
		Find(&destinations).Error
	return destinations, err
}

// SearchDestinations matches any of the query tokens as a case-insensitive
// substring of name, description or category.
func (r *Repository) SearchDestinations(tokens []string) ([]models.Destination, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	matcher := "LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(category) LIKE ?"

	pattern := "%" + tokens[0] + "%"
	condition := r.db.DB.Where(matcher, pattern, pattern, pattern)
	for _, token := range tokens[1:] {
		pattern = "%" + token + "%"
		condition = condition.Or(r.db.DB.Where(matcher, pattern, pattern, pattern))
	}

	var destinations []models.Destination
	err := r.db.Where(condition).Find(&destinations).Error
	return destinations, err
}

func (r *Repository) GetDestinationsByOwner(ownerID uint) ([]models.Destination, error) {
	var destinations []models.Destination
	err := r.db.Where("business_owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&destinations).Error
	return destinations, err
}

// Feedback repository methods

// AddFeedback inserts the feedback row and refreshes the destination's rating
// aggregates in a single transaction. The average is the integer-rounded mean
// of every rating on record for the destination.
func (r *Repository) AddFeedback(feedback *models.Feedback) (*FeedbackResult, error) {
	var result FeedbackResult

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var destination models.Destination
		if err := tx.Where("destination_id = ?", feedback.DestinationID).
			First(&destination).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if feedback.SubmittedAt.IsZero() {
			feedback.SubmittedAt = time.Now().UTC()
		}
		if err := tx.Create(feedback).Error; err != nil {
			return err
		}

		var ratings []int
		if err := tx.Model(&models.Feedback{}).
			Where("destination_id = ?", feedback.DestinationID).
			Pluck("rating", &ratings).Error; err != nil {
			return err
		}

		sum := 0
		for _, rating := range ratings {
			sum += rating
		}
		average := int(math.Round(float64(sum) / float64(len(ratings))))

		if err := tx.Model(&models.Destination{}).
			Where("destination_id = ?", feedback.DestinationID).
			Updates(map[string]interface{}{
				"average_rating": average,
				"feedback_count": len(ratings),
			}).Error; err != nil {
			return err
		}

		result.NewAverageRating = average
		result.TotalComments = len(ratings)
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *Repository) GetCommentsForDestination(destinationID string) ([]CommentData, error) {
	var comments []CommentData
	err := r.db.Model(&models.Feedback{}).
		Select("feedbacks.id as feedback_id, feedbacks.content, feedbacks.submitted_at, users.name as username").
		Joins("JOIN users ON users.id = feedbacks.user_id").
		Where("feedbacks.destination_id = ?", destinationID).
		Order("feedbacks.submitted_at DESC").
		Scan(&comments).Error
	return comments, err
}

// Booking ledger methods

// BookDestination reserves one slot with a single conditional update so two
// concurrent bookings can never both take the last slot. Zero rows affected
// means the reservation failed; the follow-up read classifies why.
func (r *Repository) BookDestination(destinationID string) (int, error) {
	result := r.db.Model(&models.Destination{}).
		Where("destination_id = ? AND is_available = ? AND available_slots > 0", destinationID, true).
		Updates(map[string]interface{}{
			"available_slots": gorm.Expr("available_slots - 1"),
			"is_available":    gorm.Expr("available_slots - 1 > 0"),
		})
	if result.Error != nil {
		return 0, result.Error
	}

	var destination models.Destination
	err := r.db.Select("available_slots", "is_available").
		Where("destination_id = ?", destinationID).
		First(&destination).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	if result.RowsAffected == 0 {
		if !destination.IsAvailable {
			return 0, ErrUnavailable
		}
		return 0, ErrFullyBooked
	}

	return destination.AvailableSlots, nil
}

// UnbookDestination releases one slot and re-enables the destination. When
// capReleases is set the slot pool is capped at the original capacity;
// otherwise releases grow it without bound.
func (r *Repository) UnbookDestination(destinationID string, capReleases bool) (int, error) {
	query := r.db.Model(&models.Destination{}).
		Where("destination_id = ?", destinationID)
	if capReleases {
		query = query.Where("available_slots < capacity")
	}

	result := query.Updates(map[string]interface{}{
		"available_slots": gorm.Expr("available_slots + 1"),
		"is_available":    true,
	})
	if result.Error != nil {
		return 0, result.Error
	}

	var destination models.Destination
	err := r.db.Select("available_slots").
		Where("destination_id = ?", destinationID).
		First(&destination).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	if result.RowsAffected == 0 {
		return 0, ErrCapacityExceeded
	}

	return destination.AvailableSlots, nil
}

// Favorite repository methods
func (r *Repository) AddFavorite(userID uint, destinationID string) (*models.Favorite, error) {
	var destination models.Destination
	err := r.db.Select("destination_id").
		Where("destination_id = ?", destinationID).
		First(&destination).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	// The composite unique index rejects duplicate pairs; relying on it
	// instead of a read-before-write keeps concurrent inserts race-free.
	favorite := models.Favorite{
		UserID:        userID,
		DestinationID: destinationID,
	}
	if err := r.db.Create(&favorite).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateFavorite
		}
		return nil, err
	}
	return &favorite, nil
}

func (r *Repository) GetFavoritesByUserID(userID uint) ([]models.Favorite, error) {
	var favorites []models.Favorite
	err := r.db.Where("user_id = ?", userID).
		Preload("Destination").
		Order("created_at DESC").
		Find(&favorites).Error
	return favorites, err
}

// Owner dashboard methods
func (r *Repository) GetOwnerStats(ownerID uint, days int) (*OwnerStatsData, error) {
	type Aggregates struct {
		DestinationCount int
		SlotsRemaining   int
		AverageRating    float64
	}

	var aggregates Aggregates
	err := r.db.Model(&models.Destination{}).
		Select("COUNT(*) as destination_count, COALESCE(SUM(available_slots), 0) as slots_remaining, COALESCE(AVG(average_rating), 0) as average_rating").
		Where("business_owner_id = ?", ownerID).
		Scan(&aggregates).Error
	if err != nil {
		return nil, err
	}

	series, err := r.GetFeedbackOverTime(ownerID, days)
	if err != nil {
		return nil, err
	}

	return &OwnerStatsData{
		DestinationCount: aggregates.DestinationCount,
		SlotsRemaining:   aggregates.SlotsRemaining,
		AverageRating:    aggregates.AverageRating,
		FeedbackOverTime: series,
	}, nil
}

func (r *Repository) GetFeedbackOverTime(ownerID uint, days int) ([]TimeSeriesData, error) {
	type DateCount struct {
		Date  string
		Count int
	}

	var results []DateCount
	err := r.db.Model(&models.Feedback{}).
		Select("DATE(feedbacks.created_at) as date, COUNT(*) as count").
		Joins("JOIN destinations ON destinations.destination_id = feedbacks.destination_id").
		Where("destinations.business_owner_id = ? AND feedbacks.created_at >= ?", ownerID, time.Now().AddDate(0, 0, -days)).
		Group("DATE(feedbacks.created_at)").
		Order("date").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	var series []TimeSeriesData
	for _, result := range results {
		series = append(series, TimeSeriesData{
			Date:  result.Date,
			Count: result.Count,
		})
	}

	return series, nil
}
