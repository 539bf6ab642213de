package domain

import (
	"time"
)

type Shop struct {
	ID        string    `json:"id"`
	ShopName  string    `json:"shop_name"`
	OwnerName string    `json:"owner_name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type User struct {
	ID           string    `json:"id"`
	ShopID       string    `json:"shop_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never serialized
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type RegisterShopRequest struct {
	ShopName  string  `json:"shopName" binding:"required"`
	OwnerName string  `json:"ownerName" binding:"required"`
	Email     string  `json:"email" binding:"required,email"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	Password  string  `json:"password" binding:"required,min=8"`
}

type RegisterShopResponse struct {
	Shop  Shop `json:"shop"`
	Admin User `json:"admin"`
}

// RegisterUserRequest adds a manager or cashier to an existing shop.
type RegisterUserRequest struct {
	ShopID   string `json:"shopId" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required"`
}

type LoginRequest struct {
	ShopID     string `json:"shopId" binding:"required"`
	Identifier string `json:"identifier" binding:"required"` // email or username
	Password   string `json:"password" binding:"required"`
}

type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
