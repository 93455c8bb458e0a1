package controllers

import (
	"net/http"
	"strconv"

	"bursary-management-api/services"
	"bursary-management-api/utils"

	"github.com/gin-gonic/gin"
)

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// GetFloats returns every fund float with its category tree.
func GetFloats(c *gin.Context) {
	floats, err := store.ListFloats()
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"floats":  floats,
		"total":   len(floats),
	})
}

// GetFloat returns one float with its categories and allocations.
func GetFloat(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	f, err := store.GetFloat(id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	categories, err := store.ListCategoriesByFloat(id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	for i := range categories {
		allocations, err := store.ListAllocationsByCategory(categories[i].CategoryID)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		categories[i].Allocations = allocations
	}
	f.Categories = categories
	c.JSON(http.StatusOK, gin.H{"success": true, "float": f})
}

// CreateFloat creates a new top-level money pool.
func CreateFloat(c *gin.Context) {
	type CreateFloatRequest struct {
		FloatName    string  `json:"float_name" binding:"required"`
		FunderName   string  `json:"funder_name" binding:"required"`
		AcademicYear string  `json:"academic_year" binding:"required"`
		Amount       float64 `json:"amount" binding:"required,gt=0"`
	}

	var req CreateFloatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if !utils.ValidateAcademicYear(req.AcademicYear) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid academic year"})
		return
	}

	actor := currentActor(c)
	f, err := ledger.CreateFloat(services.CreateFloatInput{
		FloatName:    utils.SanitizeInput(req.FloatName),
		FunderName:   utils.SanitizeInput(req.FunderName),
		AcademicYear: req.AcademicYear,
		Amount:       req.Amount,
		CreatedBy:    actor.UserID,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "float": f})
}

// CloseFloat marks a float closed; no new categories may be carved from it.
func CloseFloat(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	f, err := ledger.CloseFloat(id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "float": f})
}

// CreateCategory carves a sub-pool out of a float.
func CreateCategory(c *gin.Context) {
	floatID, ok := pathID(c, "id")
	if !ok {
		return
	}

	type CreateCategoryRequest struct {
		CategoryName string  `json:"category_name" binding:"required"`
		Amount       float64 `json:"amount" binding:"required,gt=0"`
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	category, err := ledger.CreateCategory(floatID, utils.SanitizeInput(req.CategoryName), req.Amount)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "category": category})
}

// DeleteCategory refunds the category's amount to its float.
func DeleteCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := ledger.DeleteCategory(id); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category deleted"})
}

// CreateAllocation creates the per-education-level unit applications bind to.
func CreateAllocation(c *gin.Context) {
	categoryID, ok := pathID(c, "id")
	if !ok {
		return
	}

	type CreateAllocationRequest struct {
		EducationLevel string  `json:"education_level" binding:"required"`
		Amount         float64 `json:"amount" binding:"required,gt=0"`
	}

	var req CreateAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	allocation, err := ledger.CreateAllocation(categoryID, utils.SanitizeInput(req.EducationLevel), req.Amount)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "allocation": allocation})
}

// GetAllocations lists allocations, optionally by category.
func GetAllocations(c *gin.Context) {
	if categoryID := c.Query("category_id"); categoryID != "" {
		id, err := strconv.Atoi(categoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid category_id"})
			return
		}
		allocations, err := store.ListAllocationsByCategory(id)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "allocations": allocations, "total": len(allocations)})
		return
	}

	allocations, err := store.ListAllocations()
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "allocations": allocations, "total": len(allocations)})
}

// GetAllocation returns one allocation.
func GetAllocation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	allocation, err := store.GetAllocation(id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "allocation": allocation})
}

// GetAllocationStats returns the derived aggregate figures for an allocation.
func GetAllocationStats(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	stats, err := ledger.AllocationStats(id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

// DeleteAllocation refunds the allocation's amount to its category.
func DeleteAllocation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := ledger.DeleteAllocation(id); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Allocation deleted"})
}

// ArchiveAllocation blocks new bindings; existing schedules continue.
func ArchiveAllocation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	allocation, err := ledger.ArchiveAllocation(id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "allocation": allocation})
}

// ActivateAllocation reopens an allocation for binding.
func ActivateAllocation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	allocation, err := ledger.ActivateAllocation(id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "allocation": allocation})
}

// SuspendAllocation pauses an allocation.
func SuspendAllocation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	allocation, err := ledger.SuspendAllocation(id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "allocation": allocation})
}
