// Package adkmodel exposes a Farm deployment as an ADK model.LLM, so ADK
// agents can run against the gateway:
//
//	client, err := farm.NewClient(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	llm, err := adkmodel.New(client)
//	if err != nil {
//		log.Fatal(err)
//	}
//	a, err := llmagent.New(llmagent.Config{Name: "assistant", Model: llm})
//
// Only text parts are translated. Tool calls, inline data and streaming are
// not supported by the adapter; a streaming request gets the complete
// response as a single final event.
package adkmodel
