package controllers

import (
	"sinecarbon/internal/services"

	adminController "sinecarbon/internal/controllers/admin"
	recommendationController "sinecarbon/internal/controllers/recommendation"
)

type Controllers struct {
	Recommendation recommendationController.RecommendationControllerInterface
	Admin          adminController.AdminControllerInterface
}

func New(service services.Service) Controllers {
	return Controllers{
		Recommendation: recommendationController.New(service),
		Admin:          adminController.New(service),
	}
}
