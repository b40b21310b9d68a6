package api

import (
	"github.com/casebridge/casebridge/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes binds the route table. Per-route chains run request-shape
// validation before authentication, and authentication before the handler.
func RegisterRoutes(router *gin.Engine, h *Handler) {
	// Liveness and readiness
	router.GET("/live", func(c *gin.Context) { c.Status(200) })
	router.GET("/ready", h.Health)
	router.GET("/health", func(c *gin.Context) { c.Status(200) })

	authRequired := AuthMiddleware(h.Sessions)
	userOnly := RequirePrincipal(models.PrincipalUser)
	orgOnly := RequirePrincipal(models.PrincipalOrg)

	// Sessions
	router.POST("/sessions/login", validateBody[models.LoginRequest](), h.Login)
	router.GET("/sessions/logout", h.Logout)

	// Users
	router.POST("/users", validateBody[models.UserCreateRequest](), h.CreateUser)
	router.GET("/users", authRequired, h.GetUsers)
	router.GET("/myprofile/", authRequired, userOnly, h.GetMyProfile)
	router.POST("/update/user/", validateBody[models.UserUpdateRequest](), authRequired, userOnly, h.UpdateMyProfile)
	router.DELETE("/users/", authRequired, userOnly, h.DeleteMyAccount)
	router.GET("/users/cases", authRequired, userOnly, h.GetMyCases)
	router.GET("/help/:case_id", authRequired, userOnly, h.HelpCase)
	router.GET("/case/delete/:case_id", authRequired, userOnly, h.DeleteCause)

	// Organizations (reads are public, mutation requires the org itself)
	router.POST("/orgs", validateBody[models.OrgCreateRequest](), h.CreateOrg)
	router.GET("/orgs", h.GetOrgs)
	router.GET("/orgs/:id", h.GetOrg)
	router.POST("/update/orgs/", validateBody[models.OrgUpdateRequest](), authRequired, orgOnly, h.UpdateMyOrg)
	router.DELETE("/orgs/", authRequired, orgOnly, h.DeleteMyOrg)

	// Cases (reads are public, mutation is ownership-checked in handlers)
	router.GET("/cases", h.GetCases)
	router.GET("/cases/org/:org_id", h.GetCasesFromOrg)
	router.GET("/cases/:id", h.GetCase)
	router.POST("/cases/", validateBody[models.CaseCreateRequest](), authRequired, h.CreateCase)
	router.PUT("/cases/:id", validateBody[models.CaseUpdateRequest](), authRequired, h.UpdateCase)
	router.GET("/delete/case/:id", authRequired, h.DeleteCase)
	router.GET("/resolve/case/:id", authRequired, h.ResolveCase)

	// Audit log
	router.GET("/logs", authRequired, h.GetLogs)

	// View pages
	router.GET("/", h.IndexPage)
	router.GET("/login", h.LoginPage)
	router.GET("/user/signup", h.UserSignupPage)
	router.GET("/org/signup", h.OrgSignupPage)
	router.GET("/user/profile/", authRequired, userOnly, h.UserProfilePage)
	router.GET("/user/update", authRequired, userOnly, h.UserUpdatePage)
	router.GET("/user/dashboard", authRequired, userOnly, h.UserDashboardPage)
	router.GET("/org/profile", authRequired, orgOnly, h.OrgProfilePage)
	router.GET("/org/update", authRequired, orgOnly, h.OrgUpdatePage)
	router.GET("/org/dashboard", authRequired, orgOnly, h.OrgDashboardPage)
	router.GET("/org/case", authRequired, orgOnly, h.CreateCasePage)
	router.GET("/logs/view", authRequired, orgOnly, h.LogsPage)
}
