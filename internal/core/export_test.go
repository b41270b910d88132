// CBarrera | 2026
// export_test.go

package core

import "go.mongodb.org/mongo-driver/mongo"

// IndexModels exposes the startup index definitions to external tests.
func IndexModels() map[string][]mongo.IndexModel {
	return indexModels()
}
