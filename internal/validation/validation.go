package validation

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/Mastel22/boondocks-bn-backend/internal/logger"
	"go.uber.org/zap"
)

// Check probes one external dependency
type Check func(ctx context.Context) error

// ServiceValidator verifies that services marked as required are reachable at startup
type ServiceValidator struct {
	requiredServices []string
	checks           map[string]Check
}

// NewServiceValidator creates a validator for the given checks. Which of them are
// required is read from BAREFOOT_REQUIRE_<NAME> environment variables.
func NewServiceValidator(checks map[string]Check) *ServiceValidator {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return &ServiceValidator{
		requiredServices: parseRequiredServices(names),
		checks:           checks,
	}
}

// ValidateServices runs the check of every required service
func (sv *ServiceValidator) ValidateServices(ctx context.Context) error {
	if len(sv.requiredServices) == 0 {
		logger.Log.Info("No required services configured for validation")
		return nil
	}

	logger.Log.Info("Validating required services",
		zap.Strings("services", sv.requiredServices),
	)

	for _, serviceName := range sv.requiredServices {
		check, ok := sv.checks[serviceName]
		if !ok || check == nil {
			return fmt.Errorf("required service %q is not configured", serviceName)
		}

		timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := check(timeoutCtx)
		cancel()
		if err != nil {
			logger.Log.Error("Required service validation failed",
				zap.String("service", serviceName),
				zap.Error(err),
			)
			return fmt.Errorf("required service %q validation failed: %w", serviceName, err)
		}

		logger.Log.Info("Service validated successfully",
			zap.String("service", serviceName),
		)
	}

	return nil
}

// RequiredServices returns the names that must pass validation
func (sv *ServiceValidator) RequiredServices() []string {
	return sv.requiredServices
}

func parseRequiredServices(services []string) []string {
	var required []string
	for _, service := range services {
		envVar := fmt.Sprintf("BAREFOOT_REQUIRE_%s", strings.ToUpper(service))
		if isTruthy(os.Getenv(envVar)) {
			required = append(required, service)
		}
	}
	return required
}

// isTruthy checks if a string value represents a truthy value
func isTruthy(value string) bool {
	if value == "" {
		return false
	}

	value = strings.ToLower(strings.TrimSpace(value))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}
