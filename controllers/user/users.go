package userControllers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adrianfredes10/tienda-api/apperr"
	"github.com/adrianfredes10/tienda-api/auth"
	"github.com/adrianfredes10/tienda-api/middleware"
	"github.com/adrianfredes10/tienda-api/models"
	"github.com/adrianfredes10/tienda-api/respond"
)

type RegisterInput struct {
	Name     string         `json:"name" binding:"required"`
	Email    string         `json:"email" binding:"required,email"`
	Password string         `json:"password" binding:"required,min=6"`
	Phone    string         `json:"phone"`
	Address  models.Address `json:"address"`
	Role     string         `json:"role"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateUserInput struct {
	Name    *string         `json:"name"`
	Phone   *string         `json:"phone"`
	Address *models.Address `json:"address"`
	Role    *string         `json:"role"`
}

// authPayload is the response shape for register and login.
type authPayload struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	Token string      `json:"token"`
}

// POST /api/users
// Creates the user and its cart in one transaction.
func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.Err(c, apperr.Validation("proporcione nombre, email y contraseña válidos"))
			return
		}

		role := models.RoleCustomer
		if input.Role != "" {
			if input.Role != string(models.RoleCustomer) && input.Role != string(models.RoleAdmin) {
				respond.Err(c, apperr.Validation("rol inválido"))
				return
			}
			role = models.Role(input.Role)
		}

		hash, err := auth.HashPassword(input.Password)
		if err != nil {
			respond.Err(c, apperr.Internal(err, "error del servidor"))
			return
		}

		user := models.User{
			ID:       uuid.NewString(),
			Name:     strings.TrimSpace(input.Name),
			Email:    strings.ToLower(strings.TrimSpace(input.Email)),
			Password: hash,
			Phone:    input.Phone,
			Address:  input.Address,
			Role:     role,
			Active:   true,
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&user).Error; err != nil {
				return apperr.FromDB(err, "email")
			}
			if err := tx.Create(&models.Cart{UserID: user.ID}).Error; err != nil {
				return apperr.Internal(err, "no se pudo crear el carrito")
			}
			return nil
		})
		if err != nil {
			respond.Err(c, err)
			return
		}

		token, err := auth.GenerateToken(&user)
		if err != nil {
			respond.Err(c, apperr.Internal(err, "error del servidor"))
			return
		}

		respond.Created(c, authPayload{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role, Token: token})
	}
}

// POST /api/users/login
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.Err(c, apperr.Validation("proporcione email y contraseña"))
			return
		}

		var user models.User
		err := db.First(&user, "email = ?", strings.ToLower(strings.TrimSpace(input.Email))).Error
		if err != nil || !auth.CheckPassword(user.Password, input.Password) {
			respond.Err(c, apperr.Authentication("credenciales inválidas"))
			return
		}

		token, err := auth.GenerateToken(&user)
		if err != nil {
			respond.Err(c, apperr.Internal(err, "error del servidor"))
			return
		}

		respond.OK(c, authPayload{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role, Token: token})
	}
}

// GET /api/users/me
func Profile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		respond.OK(c, user)
	}
}

// GET /api/users (admin)
func GetUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.Where("active = ?", true).Order("created_at DESC").Find(&users).Error; err != nil {
			respond.Err(c, apperr.Internal(err, "error del servidor"))
			return
		}
		respond.List(c, users, len(users))
	}
}

// GET /api/users/buscar?termino=... (admin)
func SearchUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		term := strings.TrimSpace(c.Query("termino"))
		if term == "" {
			respond.Err(c, apperr.Validation("proporcione un término de búsqueda"))
			return
		}

		pattern := "%" + strings.ToLower(term) + "%"
		var users []models.User
		err := db.
			Where("active = ?", true).
			Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern).
			Order("name").
			Find(&users).Error
		if err != nil {
			respond.Err(c, apperr.Internal(err, "error del servidor"))
			return
		}
		respond.List(c, users, len(users))
	}
}

// GET /api/users/:id (owner or admin)
func GetUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := db.First(&user, "id = ?", c.Param("id")).Error; err != nil {
			respond.Err(c, apperr.FromDB(err, "usuario"))
			return
		}
		if !middleware.IsOwnerOrAdmin(middleware.CurrentUser(c), user.ID) {
			respond.Err(c, apperr.Authorization("no autorizado para ver este usuario"))
			return
		}
		respond.OK(c, user)
	}
}

// PUT /api/users/:id (owner or admin; role changes admin-only)
func UpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.CurrentUser(c)
		targetID := c.Param("id")

		if !middleware.IsOwnerOrAdmin(caller, targetID) {
			respond.Err(c, apperr.Authorization("no autorizado para actualizar este usuario"))
			return
		}

		var input UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.Err(c, apperr.Validation("datos inválidos: "+err.Error()))
			return
		}
		if input.Role != nil && !caller.IsAdmin() {
			respond.Err(c, apperr.Authorization("no autorizado para cambiar el rol"))
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", targetID).Error; err != nil {
			respond.Err(c, apperr.FromDB(err, "usuario"))
			return
		}

		updates := make(map[string]interface{})
		if input.Name != nil {
			updates["name"] = *input.Name
		}
		if input.Phone != nil {
			updates["phone"] = *input.Phone
		}
		if input.Address != nil {
			updates["street"] = input.Address.Street
			updates["city"] = input.Address.City
			updates["state"] = input.Address.State
			updates["postal_code"] = input.Address.PostalCode
			updates["country"] = input.Address.Country
		}
		if input.Role != nil {
			if *input.Role != string(models.RoleCustomer) && *input.Role != string(models.RoleAdmin) {
				respond.Err(c, apperr.Validation("rol inválido"))
				return
			}
			updates["role"] = *input.Role
		}

		if len(updates) > 0 {
			if err := db.Model(&user).Updates(updates).Error; err != nil {
				respond.Err(c, apperr.Internal(err, "no se pudo actualizar el usuario"))
				return
			}
		}

		respond.OK(c, user)
	}
}

// DELETE /api/users/:id (admin)
// Removes the user and its cart together.
func DeleteUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := db.First(&user, "id = ?", c.Param("id")).Error; err != nil {
			respond.Err(c, apperr.FromDB(err, "usuario"))
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			var cart models.Cart
			if err := tx.First(&cart, "user_id = ?", user.ID).Error; err == nil {
				if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
					return err
				}
				if err := tx.Delete(&cart).Error; err != nil {
					return err
				}
			}
			return tx.Delete(&user).Error
		})
		if err != nil {
			respond.Err(c, apperr.Internal(err, "no se pudo eliminar el usuario"))
			return
		}

		respond.Message(c, gin.H{}, "usuario y carrito eliminados correctamente")
	}
}
