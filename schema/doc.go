// Package schema provides declared message schemas and validation for
// the busmate messaging library.
//
// A Schema describes the fields a message type must carry; the
// MessageValidator checks dispatched messages against the schema
// registered for their type tag and reports every failed field in a
// single *contracts.ValidationError. Validation is opt-in: types
// without a registered schema always pass.
//
// Key features:
//   - Property constraints: type, length, bounds, pattern, enum
//   - Format validation (email, uri, uuid, date, date-time)
//   - Named custom rules, referenced per property or run per message
//   - Schema inference from struct json tags
//   - A tag-to-type registry that constructs ready-to-dispatch messages
//
// Basic usage:
//
//	validator := schema.NewMessageValidator()
//
//	s, err := schema.InferSchema(OrderPlaced{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	s.Properties["email"].Format = "email"
//	validator.RegisterSchema("OrderPlaced", s)
//
//	if err := validator.Validate(ctx, order); err != nil {
//	    var validationErr *contracts.ValidationError
//	    if errors.As(err, &validationErr) {
//	        for _, field := range validationErr.Fields {
//	            log.Printf("%s: %s", field.Field, field.Message)
//	        }
//	    }
//	}
//
// The validator satisfies the interceptors.MessageValidator interface,
// so it can run inside an interceptor chain in front of a bus.
package schema
