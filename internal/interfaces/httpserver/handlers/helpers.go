package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

// respondError maps an application error onto its HTTP status.
func respondError(c *gin.Context, err error) {
	c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
}

// pathUUID parses a UUID path parameter, responding 400 on failure.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, apperrors.Newf(apperrors.LayerHandler, apperrors.ErrorTypeValidation, "invalid %s: %s", name, c.Param(name)))
		return uuid.Nil, false
	}
	return id, true
}
