package models

// TranscriptRecord is the normalized result of extracting one video's
// transcript. Records are never mutated after creation.
type TranscriptRecord struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title,omitempty"`
	ChannelName  string `json:"channel,omitempty"`
	ThumbnailURL string `json:"thumbnail,omitempty"`
	Transcript   string `json:"transcript"`
	WordCount    int    `json:"word_count"`
	Language     string `json:"language,omitempty"`
}

// TranscriptError records why one video in a batch could not be transcribed.
type TranscriptError struct {
	VideoID string `json:"video_id"`
	Reason  string `json:"error"`
}

// TranscriptBatch aggregates a batch extraction. A populated Errors list is
// not a failure of the batch itself; the caller decides whether the
// remaining successes are enough to continue.
type TranscriptBatch struct {
	TotalRequested int                `json:"total_requested"`
	TotalSucceeded int                `json:"total_success"`
	TotalFailed    int                `json:"total_errors"`
	Results        []TranscriptRecord `json:"results"`
	Errors         []TranscriptError  `json:"errors,omitempty"`
}
