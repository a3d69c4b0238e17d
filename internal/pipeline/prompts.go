package pipeline

// Fixed instruction sets for each backend task. These are contracts, not
// creative prompts: each demands a single JSON object and nothing else, and
// extraction runs at low temperature for determinism.

const extractionTemperature = 0.1

const extractionInstructions = `You are a medical transcription expert. Extract structured clinical data from the provided visit transcript.
Follow these rules:
1. Extract only factual information present in the transcript; never fabricate.
2. Use standardized medical terminology.
3. Format dates as YYYY-MM-DD.
4. If a field is not mentioned in the transcript, use null or an empty value.
5. Return a single JSON object and nothing else.

The JSON object must contain exactly these fields:
- patient_info: object with age, sex, visit_date (YYYY-MM-DD), visit_location
- chief_complaint: primary reason for the visit
- history_of_present_illness: narrative history
- assessment: clinical assessment
- plan: treatment plan
- pain_rating: object with level (0-10) and location
- prior_treatments: previous treatments tried
- vital_signs: recorded vitals
- past_medical_history
- social_history
- family_history
- review_of_systems
- exam_findings: objective findings on examination
- imaging_summary: imaging ordered or reviewed
- follow_up_instructions
- functional_limitations: impact on daily activities
- symptom_duration: how long symptoms have been present
- procedures_mentioned: array of procedures named anywhere in the transcript
- date: visit date (YYYY-MM-DD)`

const icdInstructions = `You are a medical coding expert. Given a structured clinical record as JSON, derive the ICD-10 diagnosis codes supported by the documented findings.
Return a single JSON object of the form {"icd_codes": ["M54.5", ...]} and nothing else. Include only codes the record justifies.`

const cptInstructions = `You are a medical billing expert. Given a structured clinical record and its ICD-10 diagnosis codes as JSON, recommend the CPT procedure codes supported by the documentation.
Return a single JSON object of the form:
{"recommended_cpt_codes": [{"code": "97110", "description": "...", "requires_lcd": true, "lcd_code": "L33611"}]}
and nothing else. Set requires_lcd true and supply lcd_code whenever a Local Coverage Determination governs the code.`

const lcdInstructions = `You are a payer policy compliance expert. Given a list of candidate CPT codes as JSON, evaluate each against its Local Coverage Determination medical-necessity criteria.
Return a single JSON object of the form:
{"lcd_validation": [{"cpt_code": "97110", "lcd_code": "L33611", "requirements": ["missing criterion", ...], "status": "Meets"}]}
and nothing else. status must be one of "Meets", "Partially Meets", "Does Not Meet". List in requirements the criteria not evidenced by the documentation.`
