package resolvelog

// RecordRenderer is implemented by event variants that render their own
// record body. Variants without it are rendered through the generic field
// printer instead.
type RecordRenderer interface {
	RenderRecord() string
}

// RequestSubmitted records a dependency-resolution request handed to the
// resolver for one script.
//
// Request holds the resolver's request descriptor; its concrete type belongs
// to the resolution subsystem and is rendered field by field.
type RequestSubmitted struct {
	ScriptPath string
	Request    any
}

// ResponseReceived records the resolver's answer for one script.
type ResponseReceived struct {
	ScriptPath string
	Response   ResolutionResponse
}

// ResolutionFailed records a resolution attempt that produced no response.
type ResolutionFailed struct {
	ScriptPath string
	Err        error
}

// ResolutionResponse is the model a completed resolution produces: the
// resolved dependency classpath, the matching source roots, the implicit
// import prefixes the script gains, and any errors collected along the way.
//
// A response with a non-empty Errors list is still a response; failures that
// prevented any response at all are logged as ResolutionFailed instead.
type ResolutionResponse struct {
	Classpath       []string
	SourcePaths     []string
	ImplicitImports []string
	Errors          []error
}
