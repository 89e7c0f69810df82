package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"projectboard/internal/mq"
	"projectboard/internal/repository"
	"projectboard/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Repository is the persistence contract every resource type satisfies.
type Repository[R, C, U any] interface {
	List(ctx context.Context) ([]R, error)
	GetByID(ctx context.Context, id int) (R, error)
	Create(ctx context.Context, req C) (R, error)
	Update(ctx context.Context, id int, req U) (R, error)
	Delete(ctx context.Context, id int) error
}

// EventPublisher is satisfied by mq.Publisher; a nil publisher disables
// lifecycle events without changing handler behavior.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

// Descriptor parametrizes the five-operation CRUD contract for one resource
// type, replacing a per-type handler pair.
type Descriptor[R, C, U any] struct {
	// Singular is the capitalized noun used in messages, e.g. "Project".
	Singular string
	// Plural is the lowercase route noun, e.g. "projects".
	Plural string
	// ID extracts the server-assigned identifier from a record.
	ID func(R) int
	// Prepare validates a creation payload and applies its defaults. It runs
	// before any persistence call; an error means 400.
	Prepare func(req *C, now time.Time) error
}

type Resource[R, C, U any] struct {
	desc      Descriptor[R, C, U]
	repo      Repository[R, C, U]
	publisher EventPublisher
	logger    *zap.Logger
}

func NewResource[R, C, U any](desc Descriptor[R, C, U], repo Repository[R, C, U], publisher EventPublisher, logger *zap.Logger) *Resource[R, C, U] {
	return &Resource[R, C, U]{desc: desc, repo: repo, publisher: publisher, logger: logger}
}

func (h *Resource[R, C, U]) noun() string {
	return strings.ToLower(h.desc.Singular)
}

func (h *Resource[R, C, U]) publish(action string, id int, record any) {
	if h.publisher == nil {
		return
	}
	event := mq.ResourceEvent{
		Resource:   h.noun(),
		Action:     action,
		ID:         id,
		Record:     record,
		OccurredAt: time.Now(),
	}
	if err := h.publisher.Publish(event.RoutingKey(), event); err != nil {
		h.logger.Warn("Failed to publish resource event",
			zap.String("routing_key", event.RoutingKey()),
			zap.Int("id", id),
			zap.Error(err),
		)
	}
}

func (h *Resource[R, C, U]) List(c *gin.Context) {
	h.logger.Info("Fetching all "+h.desc.Plural, zap.String("client_ip", c.ClientIP()))

	records, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Error fetching "+h.desc.Plural, zap.Error(err))
		metrics.IncrementResourceOperation(h.noun(), "list", "failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching " + h.desc.Plural, "error": err.Error()})
		return
	}

	h.logger.Info(h.desc.Singular+" list fetched successfully", zap.Int("count", len(records)))
	metrics.IncrementResourceOperation(h.noun(), "list", "success")
	c.JSON(http.StatusOK, records)
}

func (h *Resource[R, C, U]) GetByID(c *gin.Context) {
	id, ok := h.resourceID(c)
	if !ok {
		return
	}
	h.logger.Info("Fetching "+h.noun()+" by ID", zap.Int("id", id))

	record, err := h.repo.GetByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		metrics.IncrementResourceOperation(h.noun(), "get", "failed")
		c.JSON(http.StatusNotFound, gin.H{"message": h.desc.Singular + " not found"})
		return
	}
	if err != nil {
		h.logger.Error("Error fetching "+h.noun(), zap.Int("id", id), zap.Error(err))
		metrics.IncrementResourceOperation(h.noun(), "get", "failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching " + h.noun(), "error": err.Error()})
		return
	}

	h.logger.Info(h.desc.Singular+" fetched successfully", zap.Int("id", id))
	metrics.IncrementResourceOperation(h.noun(), "get", "success")
	c.JSON(http.StatusOK, record)
}

func (h *Resource[R, C, U]) Create(c *gin.Context) {
	var req C
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Create "+h.noun()+": invalid request body", zap.Error(err))
		metrics.IncrementResourceOperation(h.noun(), "create", "failed")
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body", "error": err.Error()})
		return
	}

	if err := h.desc.Prepare(&req, time.Now().UTC()); err != nil {
		h.logger.Warn("Create "+h.noun()+": validation failed", zap.Error(err))
		metrics.IncrementResourceOperation(h.noun(), "create", "failed")
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	h.logger.Info("Creating new " + h.noun())
	record, err := h.repo.Create(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("Error creating "+h.noun(), zap.Error(err))
		metrics.IncrementResourceOperation(h.noun(), "create", "failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error creating " + h.noun(), "error": err.Error()})
		return
	}

	id := h.desc.ID(record)
	h.logger.Info(h.desc.Singular+" created successfully", zap.Int("id", id))
	metrics.IncrementResourceOperation(h.noun(), "create", "success")
	h.publish(mq.ActionCreated, id, record)
	c.JSON(http.StatusCreated, record)
}

func (h *Resource[R, C, U]) Update(c *gin.Context) {
	id, ok := h.resourceID(c)
	if !ok {
		return
	}

	var req U
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Update "+h.noun()+": invalid request body", zap.Int("id", id), zap.Error(err))
		metrics.IncrementResourceOperation(h.noun(), "update", "failed")
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body", "error": err.Error()})
		return
	}

	h.logger.Info("Updating "+h.noun(), zap.Int("id", id))
	record, err := h.repo.Update(c.Request.Context(), id, req)
	if errors.Is(err, repository.ErrNotFound) {
		metrics.IncrementResourceOperation(h.noun(), "update", "failed")
		c.JSON(http.StatusNotFound, gin.H{"message": h.desc.Singular + " not found"})
		return
	}
	if err != nil {
		h.logger.Error("Error updating "+h.noun(), zap.Int("id", id), zap.Error(err))
		metrics.IncrementResourceOperation(h.noun(), "update", "failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating " + h.noun(), "error": err.Error()})
		return
	}

	h.logger.Info(h.desc.Singular+" updated successfully", zap.Int("id", id))
	metrics.IncrementResourceOperation(h.noun(), "update", "success")
	h.publish(mq.ActionUpdated, id, record)
	c.JSON(http.StatusOK, record)
}

// Delete responds 204 whether or not a row existed; the persistence call does
// not distinguish the two, and repeated deletes stay idempotent.
func (h *Resource[R, C, U]) Delete(c *gin.Context) {
	id, ok := h.resourceID(c)
	if !ok {
		return
	}

	h.logger.Info("Deleting "+h.noun(), zap.Int("id", id))
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("Error deleting "+h.noun(), zap.Int("id", id), zap.Error(err))
		metrics.IncrementResourceOperation(h.noun(), "delete", "failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error deleting " + h.noun(), "error": err.Error()})
		return
	}

	h.logger.Info(h.desc.Singular+" deleted successfully", zap.Int("id", id))
	metrics.IncrementResourceOperation(h.noun(), "delete", "success")
	h.publish(mq.ActionDeleted, id, nil)
	c.Status(http.StatusNoContent)
}

func (h *Resource[R, C, U]) resourceID(c *gin.Context) (int, bool) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		h.logger.Warn("Invalid "+h.noun()+" id", zap.String("id", idStr))
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid " + h.noun() + " id"})
		return 0, false
	}
	return id, true
}
