package controllers

import (
	"net/http"

	"github.com/Aditya0Kumar/trackr-sub000/models"
	"github.com/Aditya0Kumar/trackr-sub000/services"

	"github.com/gin-gonic/gin"
)

type AttendanceController struct {
	attendance *services.AttendanceService
}

func NewAttendanceController(attendance *services.AttendanceService) *AttendanceController {
	return &AttendanceController{attendance: attendance}
}

// MarkAttendance POST /attendance/mark
func (ac *AttendanceController) MarkAttendance(c *gin.Context) {
	var req models.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := ac.attendance.MarkAttendance(c.Request.Context(), c.GetString("uid"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListAttendance GET /attendance?workspaceId=&date=
func (ac *AttendanceController) ListAttendance(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = ac.attendance.Guard().Today().Format("2006-01-02")
	}

	records, err := ac.attendance.ListAttendance(c.Request.Context(), c.GetString("uid"), c.Query("workspaceId"), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "records": records})
}

// GetAttempts GET /rectifications/attempts?workspaceId=&month=
func (ac *AttendanceController) GetAttempts(c *gin.Context) {
	quota, err := ac.attendance.RemainingAttempts(c.Request.Context(), c.GetString("uid"), c.Query("workspaceId"), c.Query("month"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quota)
}
