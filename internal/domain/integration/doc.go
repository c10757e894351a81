// Package integration contains the domain model for synchronizing catalog
// products with external ERP systems. It defines the product snapshot pushed
// outward, the per-system sync record kept locally, the client port the
// infrastructure layer implements, and the error taxonomy shared by both.
package integration
