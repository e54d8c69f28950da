package validation

import "fmt"

// CarRules validates car creation
func CarRules(doc map[string]any) []string {
	var violations []string
	violations = requireString(doc, "brand", violations)
	violations = requireString(doc, "model", violations)
	violations = requirePositiveNumber(doc, "price", violations)

	if year, ok := numberField(doc, "year"); !ok {
		violations = append(violations, "Поле year обязательно и должно быть числом")
	} else if year < 1900 || year > 2100 {
		violations = append(violations, "Поле year вне допустимого диапазона")
	}

	if status, ok := doc["status"]; ok {
		s, isString := status.(string)
		if !isString || (s != "available" && s != "reserved" && s != "sold") {
			violations = append(violations, "Поле status должно быть одним из: available, reserved, sold")
		}
	}
	return violations
}

// UserRules validates admin user creation
func UserRules(doc map[string]any) []string {
	var violations []string
	violations = requireString(doc, "firstName", violations)
	violations = requireString(doc, "lastName", violations)
	violations = checkEmail(doc, violations)
	violations = checkPhone(doc, violations)
	violations = requireString(doc, "password", violations)

	if role, ok := stringField(doc, "role"); ok {
		if role != "admin" && role != "manager" && role != "customer" {
			violations = append(violations, "Поле role должно быть одним из: admin, manager, customer")
		}
	}
	return violations
}

// RegisterRules validates public self-registration. The role field is
// ignored here because registration forces the customer role.
func RegisterRules(doc map[string]any) []string {
	var violations []string
	violations = requireString(doc, "firstName", violations)
	violations = requireString(doc, "lastName", violations)
	violations = checkEmail(doc, violations)
	violations = checkPhone(doc, violations)

	if password, ok := stringField(doc, "password"); !ok {
		violations = append(violations, "Поле password обязательно")
	} else if len(password) < 6 {
		violations = append(violations, "Пароль должен содержать не менее 6 символов")
	}
	return violations
}

// OrderRules validates order creation
func OrderRules(doc map[string]any) []string {
	var violations []string
	violations = requireString(doc, "carId", violations)
	violations = requirePositiveNumber(doc, "totalAmount", violations)
	return violations
}

// AppointmentRules validates appointment booking, including the
// not-in-the-past date check
func AppointmentRules(doc map[string]any) []string {
	var violations []string
	violations = requireString(doc, "type", violations)
	violations = checkFutureDate(doc, "appointmentDate", violations)
	violations = requireString(doc, "appointmentTime", violations)
	return violations
}

// TradeInRules validates trade-in submissions
func TradeInRules(doc map[string]any) []string {
	var violations []string
	violations = requireString(doc, "carBrand", violations)
	violations = requireString(doc, "carModel", violations)

	if year, ok := numberField(doc, "carYear"); !ok {
		violations = append(violations, "Поле carYear обязательно и должно быть числом")
	} else if year < 1900 || year > 2100 {
		violations = append(violations, "Поле carYear вне допустимого диапазона")
	}

	if mileage, ok := numberField(doc, "mileage"); ok && mileage < 0 {
		violations = append(violations, "Поле mileage не может быть отрицательным")
	}
	return violations
}

// InsuranceRules validates insurance policy requests
func InsuranceRules(doc map[string]any) []string {
	var violations []string

	if policyType, ok := stringField(doc, "type"); !ok {
		violations = append(violations, "Поле type обязательно")
	} else if policyType != "kasko" && policyType != "osago" {
		violations = append(violations, "Поле type должно быть одним из: kasko, osago")
	}

	violations = requireString(doc, "insuranceCompany", violations)
	violations = requirePositiveNumber(doc, "premium", violations)
	violations = requireString(doc, "startDate", violations)
	violations = requireString(doc, "endDate", violations)
	return violations
}

// ServiceRules validates service catalog entries
func ServiceRules(doc map[string]any) []string {
	var violations []string
	violations = requireString(doc, "name", violations)
	violations = requireString(doc, "category", violations)

	if price, ok := numberField(doc, "price"); !ok {
		violations = append(violations, "Поле price обязательно и должно быть числом")
	} else if price < 0 {
		violations = append(violations, fmt.Sprintf("Поле price не может быть отрицательным: %v", price))
	}
	return violations
}
