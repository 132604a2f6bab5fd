package linker

// OutputWriter is the header state every output section carries.
type OutputWriter struct {
	Name string
	Shdr Shdr
}

func NewOutputWriter() *OutputWriter {
	return &OutputWriter{
		Shdr: Shdr{
			AddrAlign: 1,
		},
	}
}

func (o *OutputWriter) GetName() string {
	return o.Name
}

func (o *OutputWriter) GetShdr() *Shdr {
	return &o.Shdr
}
