// Package expertdesk is an in-process Go client for the expertdesk ranking core.
// It loads an expert roster (CSV or Parquet) or takes one in memory, and ranks
// experts against a question without running the HTTP service or calling a
// language model.
//
//	client, _ := expertdesk.New(ctx, expertdesk.WithRosterFile("data/experts.csv"))
//	recs, _ := client.Recommend(ctx, expertdesk.Query{
//	    Question:     "How do wetlands store carbon?",
//	    ThematicArea: "carbon sequestration",
//	    Affiliation:  "NGO",
//	})
//	fmt.Println(client.Confidence(recs))
package expertdesk
