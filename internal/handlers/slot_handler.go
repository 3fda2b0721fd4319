package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/weekly-signup/internal/httpresp"
	"github.com/BruksfildServices01/weekly-signup/internal/slot"
)

// Slots lists the fixed half-hour slots of a day.
func Slots(c *gin.Context) {
	httpresp.List(c, slot.All())
}
