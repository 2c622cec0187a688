package skills

// ExactSkills is the fixed vocabulary matched as whole words, with
// hyphen/underscore spelling variants tolerated ("machine-learning",
// "machine_learning", "machine learning" all count as Machine Learning).
var ExactSkills = []string{
	"Python", "R", "SQL", "Java", "Scala",
	"Machine Learning", "Deep Learning", "TensorFlow", "PyTorch",
	"Pandas", "NumPy", "Scikit-learn",
	"Tableau", "Power BI", "Qlik",
	"Hadoop", "Spark", "Kafka",
	"AWS", "Azure", "GCP",
	"Docker", "Kubernetes",
	"Git", "CI/CD",
}

// SynonymGroup maps a canonical skill name to alternate spellings and
// related phrases, any of which counts as a plain-substring match. French
// spellings sit alongside English ones because the scraped sites mix both.
type SynonymGroup struct {
	Name     string
	Keywords []string
}

var SynonymGroups = []SynonymGroup{
	{"Statistics", []string{"statistique", "statistiques", "statistical"}},
	{"Data Visualization", []string{"visualisation", "visualization", "dashboard"}},
	{"ETL", []string{"etl", "extract transform load"}},
	{"NLP", []string{"nlp", "natural language processing", "traitement du langage"}},
	{"Computer Vision", []string{"computer vision", "vision par ordinateur", "opencv"}},
	{"Time Series", []string{"time series", "séries temporelles", "forecasting"}},
	{"A/B Testing", []string{"a/b testing", "ab testing", "test ab"}},
	{"Agile", []string{"agile", "scrum", "kanban"}},
	{"Jupyter", []string{"jupyter", "notebook"}},
	{"Matplotlib", []string{"matplotlib", "seaborn", "plotly"}},
	{"Excel", []string{"excel", "vba", "pivot table"}},
	{"NoSQL", []string{"nosql", "mongodb", "cassandra", "redis"}},
	{"PostgreSQL", []string{"postgresql", "postgres"}},
	{"MySQL", []string{"mysql", "mariadb"}},
	{"Elasticsearch", []string{"elasticsearch", "elastic search"}},
	{"Airflow", []string{"airflow", "apache airflow"}},
	{"DBT", []string{"dbt", "data build tool"}},
	{"Snowflake", []string{"snowflake"}},
	{"Databricks", []string{"databricks"}},
	{"MLflow", []string{"mlflow", "ml flow"}},
	{"Terraform", []string{"terraform"}},
	{"Jenkins", []string{"jenkins"}},
	{"GitHub", []string{"github", "gitlab", "bitbucket"}},
}
