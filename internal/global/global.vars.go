package global

import (
	"explorerhub/config"
	"explorerhub/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// Keys set in fiber.Ctx Locals by the auth middleware.
const (
	LocalsUserID    = "user_id"
	LocalsUserRole  = "user_role"
	LocalsUserEmail = "user_email"
)

// MongoDB_CollectionName holds the collection names used by the service.
type MongoDB_CollectionName struct {
	Counters   string
	Users      string
	Businesses string
	Reviews    string
	Trips      string
}

var Validate *validator.Validate
var MongoDB_Session *mongo.Client
var MongoDB_ServerConfig *config.Configuration
var MongoDB_ColNames MongoDB_CollectionName

// Registries
var RegistryCollections = registry.NewRegistry[*mongo.Collection]()

// InitColNames sets the collection names used by the service.
func InitColNames() {
	MongoDB_ColNames = MongoDB_CollectionName{
		Counters:   "counters",
		Users:      "users",
		Businesses: "businesses",
		Reviews:    "reviews",
		Trips:      "trips",
	}
}

// All lists every collection name.
func (n MongoDB_CollectionName) All() []string {
	return []string{n.Counters, n.Users, n.Businesses, n.Reviews, n.Trips}
}
