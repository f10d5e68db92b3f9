// Package factory is a generic name-to-constructor registry. An
// implementation is chosen by a type string and built from a map of raw
// settings, which the factory decodes into its own struct with Decode.
//
//	reg := factory.NewRegistry[Backend]()
//	reg.MustRegister("json", func(conf map[string]any) (Backend, error) {
//	    var c struct{ Path string `json:"path"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return NewFileBackend(c.Path)
//	})
//	b, err := reg.Create(factory.Spec{Type: "json", Conf: map[string]any{"path": "logs.json"}})
package factory
