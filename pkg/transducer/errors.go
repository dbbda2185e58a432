package transducer

import "errors"

var (
	// ErrInvalidContinuation indicates a rule passed a nil element to next.
	ErrInvalidContinuation = errors.New("next was called with invalid children")

	// ErrInvalidRuleResult indicates a rule matched with a nil fragment.
	ErrInvalidRuleResult = errors.New("rule returned an invalid deserialized representation")

	// ErrUnmatchedMark indicates no rule serialized a mark.
	ErrUnmatchedMark = errors.New("no serializer defined for mark")

	// ErrUnmatchedNode indicates no rule serialized a block or inline.
	ErrUnmatchedNode = errors.New("no serializer defined for node")

	// ErrNilValue indicates a value without a document was given to Serialize.
	ErrNilValue = errors.New("value has no document")
)
