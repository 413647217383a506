package crowdfunding

import (
	"campus-activity/internal/global/middleware"
	"campus-activity/internal/model"

	"github.com/gin-gonic/gin"
)

func (m *ModuleCrowdfunding) InitRouter(r *gin.RouterGroup) {
	publicGroup := r.Group("/activity/:id/crowdfunding")
	{
		publicGroup.GET("", GetDetails)
		publicGroup.GET("/tiers", GetTiers)
		publicGroup.GET("/supports", ListSupports)
	}

	userGroup := r.Group("/activity/:id/crowdfunding")
	userGroup.Use(middleware.Auth(model.RoleStudent))
	{
		userGroup.POST("/support", Pledge)
	}

	organizerGroup := r.Group("/activity/:id")
	organizerGroup.Use(middleware.Auth(model.RoleOrganizer))
	{
		organizerGroup.POST("/crowdfunding/tiers", CreateTier)
		organizerGroup.GET("/fund-proof", ListFundProofs)
		organizerGroup.POST("/fund-proof", SubmitFundProof)
		organizerGroup.POST("/fund-proof/upload-url", ProofUploadURL)
	}

	proofGroup := r.Group("/fund-proof")
	proofGroup.Use(middleware.Auth(model.RoleOrganizer))
	{
		proofGroup.GET("/:id/download-url", ProofDownloadURL)
	}
}
