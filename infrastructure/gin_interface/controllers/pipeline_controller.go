package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/maourynd/radio-summary/application/ports/inbound"
	"github.com/maourynd/radio-summary/application/ports/outbound"
	"github.com/maourynd/radio-summary/domain"
	"github.com/maourynd/radio-summary/infrastructure/gin_interface/dto"
)

type PipelineController interface {
	RegisterRoutes(g *gin.Engine)
}

type pipelineController struct {
	logger     outbound.LoggerPort
	workerPool *ants.Pool
	state      outbound.StateStorePort
	runner     inbound.PipelineRunnerPort
	aggregator inbound.SummaryAggregatorPort
}

// NewPipelineController exposes the ops surface: health, watermark
// state, and manual triggers for a pipeline pass or an aggregation
// run. Triggers reuse the scheduled entry points, so the pipeline's
// idempotency guards make repeated requests harmless.
func NewPipelineController(
	logger outbound.LoggerPort,
	workerPool *ants.Pool,
	state outbound.StateStorePort,
	runner inbound.PipelineRunnerPort,
	aggregator inbound.SummaryAggregatorPort,
) PipelineController {
	return &pipelineController{
		logger:     logger,
		workerPool: workerPool,
		state:      state,
		runner:     runner,
		aggregator: aggregator,
	}
}

func (p *pipelineController) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (p *pipelineController) getState(c *gin.Context) {
	lastCaptured, _, err := p.state.Get(c, domain.StateKeyLastCaptured)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	pending, _, err := p.state.Get(c, domain.StateKeyPendingSegments)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.PipelineStateResponse{
		LastCapturedSegment: lastCaptured,
		PendingSegments:     pending,
	})
}

func (p *pipelineController) triggerPass(c *gin.Context) {
	runID := uuid.NewString()
	err := p.workerPool.Submit(func() {
		if err := p.runner.RunPass(context.Background()); err != nil {
			p.logger.ErrorWithFields(err, "Manually triggered pass failed", map[string]interface{}{
				"runID": runID,
			})
		}
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, dto.TriggerResponse{RunID: runID})
}

func (p *pipelineController) triggerAggregation(c *gin.Context) {
	runID := uuid.NewString()
	err := p.workerPool.Submit(func() {
		_, err := p.aggregator.Aggregate(context.Background())
		if errors.Is(err, domain.ErrNothingToSummarize) {
			p.logger.InfoWithFields("Nothing to summarize", map[string]interface{}{
				"runID": runID,
			})
			return
		}
		if err != nil {
			p.logger.ErrorWithFields(err, "Manually triggered aggregation failed", map[string]interface{}{
				"runID": runID,
			})
		}
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, dto.TriggerResponse{RunID: runID})
}

func (p *pipelineController) RegisterRoutes(g *gin.Engine) {
	g.GET("/health", p.health)
	g.GET("/state", p.getState)
	g.POST("/run", p.triggerPass)
	g.POST("/aggregate", p.triggerAggregation)
}
