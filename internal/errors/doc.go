// Package errors provides coded errors for coc-keeper.
//
// Every failure a player can cause (a malformed .st value, spending more
// luck than they have, a non-Keeper touching Keeper tools) is returned as an
// *Error whose Code says which kind of failure it is and whose Message is
// written for the chat room. Infrastructure failures use the same type with
// non user-facing codes so they are logged rather than echoed.
//
// Creating errors:
//
//	err := errors.ResourceExhaustedf("幸运值不足！当前幸运: %d，需要: %d", pool, amount)
//	err := errors.InvalidArgument("骰子数量或面数过大")
//
// Wrapping keeps the code of the inner error:
//
//	if err != nil {
//		return nil, errors.Wrap(err, "failed to load sheet")
//	}
//
// Rendering for players:
//
//	if msg, ok := errors.UserMessage(err); ok {
//		return "❌ " + msg
//	}
//
// Validating configs:
//
//	vb := errors.NewValidationBuilder()
//	if c.Client == nil {
//		vb.RequiredField("Client")
//	}
//	return vb.Build()
package errors
