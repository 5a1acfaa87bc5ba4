package service_mocks

//go:generate mockgen -source=../interfaces.go -destination=service_mocks.go -package=service_mocks

// service_mocks.go is committed with the collaborator mocks the report
// service tests need. Regenerating it adds the remaining interfaces:
//   go generate ./internal/services/service_mocks
