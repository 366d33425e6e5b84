package pipeline

// Stage is one step of a controller pipeline.
type Stage interface {

	// Name returns name of the stage.
	Name() string

	// Init is called once when the stage is added to a pipeline.
	Init()

	PreProcess()

	// Process handles the event. An error aborts the rest of the pipeline.
	Process(evt *Event) error

	PostProcess()

	// Release is called once when the pipeline is finished for good.
	Release()
}
