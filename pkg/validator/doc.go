// Package validator builds request validation from small rules.
//
// Each constructor evaluates its condition immediately and returns a Rule;
// Apply gathers the failures into ValidationErrors:
//
//	err := validator.Apply(
//		validator.RequiredString("subject", req.Subject),
//		validator.MaxLenString("subject", req.Subject, 998),
//		validator.Check("fromEmail", dispatch.IsWellFormed(req.FromEmail), "email", "must be a valid email address"),
//	)
//	if ve := validator.ExtractValidationErrors(err); ve != nil {
//		// ve.Fields() -> {"subject": ["is required"]}
//	}
//
// Every error carries a short Code next to its English message.
package validator
